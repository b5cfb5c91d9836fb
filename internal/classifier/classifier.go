// Package classifier defines the contract with the external image
// classification backend and the preprocessing that feeds it.
package classifier

import "context"

// Provider maps a normalized image to its top predicted category label.
// The network itself lives behind this interface; swapping classifiers must
// not touch the image pipeline.
type Provider interface {
	Predict(ctx context.Context, image []byte) (string, error)
}
