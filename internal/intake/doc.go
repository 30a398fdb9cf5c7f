// Package intake is the message channel that hands validated orders from the
// acceptance surface to the placement engine, including the cooperative
// busy-retry path used when a shelf lock is contended.
package intake
