// Package extract turns a screenshot into candidate shifts using a vision
// model. Malformed model output never fails a request; it yields fewer (or
// zero) candidates.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"shiftsense/api-gateway/internal/shift"
)

// Vision reads an image according to an instruction.
type Vision interface {
	ReadImage(ctx context.Context, image []byte, instruction string) (string, error)
}

// Extraction is what one image produced. Raw is the model's full answer and
// is kept for debugging.
type Extraction struct {
	Candidates []shift.Candidate
	Raw        string
}

type Extractor struct {
	vision      Vision
	cfg         Config
	instruction string
	schema      *jsonschema.Schema
	logger      logrus.FieldLogger
}

func New(vision Vision, cfg Config, logger logrus.FieldLogger) (*Extractor, error) {
	instruction, err := Instruction(cfg)
	if err != nil {
		return nil, err
	}
	schema, err := compileItemSchema()
	if err != nil {
		return nil, err
	}
	return &Extractor{
		vision:      vision,
		cfg:         cfg,
		instruction: instruction,
		schema:      schema,
		logger:      logger,
	}, nil
}

// Extract never returns an error. Vision failures and unusable answers are
// logged and produce an empty Extraction.
func (e *Extractor) Extract(ctx context.Context, image []byte) Extraction {
	if e.cfg.VisionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.VisionTimeout)
		defer cancel()
	}

	answer, err := e.vision.ReadImage(ctx, image, e.instruction)
	if err != nil {
		e.logger.WithError(err).Error("vision extraction failed")
		return Extraction{}
	}
	e.logger.WithField("raw_output", answer).Debug("vision raw output")

	return Extraction{Candidates: e.parse(answer), Raw: answer}
}

func (e *Extractor) parse(answer string) []shift.Candidate {
	arr, ok := findJSONArray(answer)
	if !ok {
		e.logger.Warn("no JSON array found in vision output")
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(arr, &items); err != nil {
		e.logger.WithError(err).Warn("vision output array is not decodable")
		return nil
	}

	candidates := make([]shift.Candidate, 0, len(items))
	for i, raw := range items {
		c, err := e.decodeItem(raw)
		if err != nil {
			e.logger.WithError(err).WithField("index", i).Warn("dropping malformed shift item")
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func (e *Extractor) decodeItem(raw json.RawMessage) (shift.Candidate, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return shift.Candidate{}, fmt.Errorf("unmarshal item: %w", err)
	}
	if err := e.schema.Validate(v); err != nil {
		return shift.Candidate{}, fmt.Errorf("item does not match schema: %w", err)
	}
	item, ok := v.(map[string]any)
	if !ok {
		return shift.Candidate{}, fmt.Errorf("item is %T, not an object", v)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return shift.Candidate{}, fmt.Errorf("compact item: %w", err)
	}
	return toCandidate(item, compact.String()), nil
}
