// Package backend defines the delivery transport contract and the local
// filesystem implementation that doubles as the staging fallback.
package backend
