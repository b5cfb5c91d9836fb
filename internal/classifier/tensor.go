package classifier

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Input resolution and the published ImageNet normalization constants the
// pretrained backend expects.
const inputSize = 224

var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Tensor is a single-sample batch in NCHW layout.
type Tensor struct {
	Data  []float32
	Shape [4]int // [1, 3, H, W]
}

// Preprocess decodes a normalized image and converts it to the tensor the
// classifier consumes: RGB channel order, 224x224, values scaled to [0,1],
// then per-channel mean-subtracted and variance-normalized.
func Preprocess(data []byte) (*Tensor, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	resized := imaging.Resize(img, inputSize, inputSize, imaging.Linear)

	out := make([]float32, 3*inputSize*inputSize)
	plane := inputSize * inputSize
	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			i := resized.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := float32(resized.Pix[i+c]) / 255.0
				out[c*plane+y*inputSize+x] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}

	return &Tensor{
		Data:  out,
		Shape: [4]int{1, 3, inputSize, inputSize},
	}, nil
}
