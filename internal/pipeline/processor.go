package pipeline

import (
	"context"
	"fmt"
	"time"

	"photolab/internal/logger"
	"photolab/internal/opencv/conversion"
	"photolab/internal/opencv/safe"
	"photolab/internal/processing/chain"
)

type imageProcessor struct {
	chain  *chain.ProcessingChain
	logger logger.Logger
}

// NewProcessor wraps a filter chain as an ImageProcessor.
func NewProcessor(pc *chain.ProcessingChain, log logger.Logger) ImageProcessor {
	return &imageProcessor{chain: pc, logger: log}
}

func (p *imageProcessor) Process(ctx context.Context, input *ImageData, params map[string]interface{}) (*ImageData, error) {
	if input == nil || input.Mat == nil {
		return nil, fmt.Errorf("no input image")
	}
	if err := safe.ValidateMatForOperation(input.Mat, "processing"); err != nil {
		return nil, err
	}

	props := conversion.GetMatProperties(input.Mat)
	p.logger.Debug("ImageProcessor", "input accepted", map[string]interface{}{
		"rows":     props.Rows,
		"cols":     props.Cols,
		"channels": props.Channels,
		"mat_type": int(props.Type),
	})

	active := p.chain.ActiveStepNames(params)
	start := time.Now()

	resultMat, err := p.chain.Execute(ctx, input.Mat, params)
	if err != nil {
		return nil, fmt.Errorf("filter chain failed: %w", err)
	}

	resultImage, err := conversion.MatToImage(resultMat)
	if err != nil {
		resultMat.Close()
		return nil, err
	}

	p.logger.Info("ImageProcessor", "processing complete", map[string]interface{}{
		"steps":       active,
		"elapsed_ms":  time.Since(start).Milliseconds(),
		"out_width":   resultMat.Cols(),
		"out_height":  resultMat.Rows(),
		"out_channel": resultMat.Channels(),
	})

	return &ImageData{
		Image:    resultImage,
		Mat:      resultMat,
		Width:    resultMat.Cols(),
		Height:   resultMat.Rows(),
		Channels: resultMat.Channels(),
		Format:   input.Format,
		Path:     input.Path,
	}, nil
}
