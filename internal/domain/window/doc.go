// Package window tracks the open application windows of one desktop session.
//
// Stacking order is carried solely by zIndex, issued from a monotonic counter
// so two windows never share a value. The collection is capped (10 by default)
// and every window carries a typed payload matching its application kind.
package window
