// Package codec converts position samples to and from the shared wire format.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/unitransport/internal/pkg/models"
)

// ErrMalformedMessage is returned for payloads that cannot become a valid sample
var ErrMalformedMessage = errors.New("malformed position message")

var validate = validator.New()

// EncodeSample serializes a sample for publishing
func EncodeSample(sample models.PositionSample) ([]byte, error) {
	data, err := json.Marshal(sample)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal position sample: %w", err)
	}
	return data, nil
}

// DecodeSample parses and validates an inbound payload.
// Every failure wraps ErrMalformedMessage.
func DecodeSample(payload []byte) (models.PositionSample, error) {
	var sample models.PositionSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return models.PositionSample{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if err := ValidateSample(sample); err != nil {
		return models.PositionSample{}, err
	}
	return sample, nil
}

// ValidateSample checks field ranges and the direction enum
func ValidateSample(sample models.PositionSample) error {
	if err := validate.Struct(sample); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return nil
}
