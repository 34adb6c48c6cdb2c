package discount

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

const (
	minCodeLen = 8
	maxCodeLen = 10
)

// validator implements Validator over a fixed collection of code sets.
type validator struct {
	codeSets      []CodeSet
	minMatchCount int
	logger        zerolog.Logger
	// Code sets are read-only after initialisation, no locking needed.
}

// ValidatorConfig holds configuration for the discount code validator.
type ValidatorConfig struct {
	// FilePaths is the list of code file paths to load.
	FilePaths []string

	// MinMatchCount is the minimum number of files a code must appear in.
	// Default: 2
	MinMatchCount int
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/discounts/codebase1.gz",
			"data/discounts/codebase2.gz",
			"data/discounts/codebase3.gz",
		},
		MinMatchCount: 2,
	}
}

// NewValidator creates a discount code validator, loading every code file
// concurrently at initialisation time.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}
	minMatch := config.MinMatchCount
	if minMatch <= 0 {
		minMatch = 2
	}

	logger = logger.With().Str("component", "discount-validator").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Int("min_match_count", minMatch).
		Msg("initialising discount validator")

	v := &validator{
		codeSets:      make([]CodeSet, 0, len(config.FilePaths)),
		minMatchCount: minMatch,
		logger:        logger,
	}

	type loadResult struct {
		index int
		set   CodeSet
		err   error
	}

	resultChan := make(chan loadResult, len(config.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(config.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load code file")
			return nil, fmt.Errorf("failed to load code file %s: %w", config.FilePaths[i], result.err)
		}
		v.codeSets = append(v.codeSets, result.set)
		logger.Info().
			Str("file", config.FilePaths[i]).
			Int("size", result.set.Size()).
			Msg("code file loaded")
	}

	return v, nil
}

// Validate checks whether a discount code is valid. A valid code has an
// acceptable length and appears in at least minMatchCount of the loaded
// code files.
func (v *validator) Validate(ctx context.Context, code string) error {
	// Length check first, it is cheap.
	if len(code) < minCodeLen || len(code) > maxCodeLen {
		v.logger.Debug().
			Str("discount_code", code).
			Int("length", len(code)).
			Msg("discount code length invalid")
		return ErrCodeLength
	}

	matchCount := v.countMatches(ctx, code)

	if matchCount < v.minMatchCount {
		v.logger.Debug().
			Str("discount_code", code).
			Int("match_count", matchCount).
			Msg("discount code not found in sufficient files")
		return ErrCodeUnknown
	}

	return nil
}

// countMatches counts how many code files contain the given code,
// terminating early once minMatchCount matches are found or the remaining
// files cannot reach it.
func (v *validator) countMatches(ctx context.Context, code string) int {
	resultChan := make(chan bool, len(v.codeSets))
	doneChan := make(chan struct{})
	defer close(doneChan)

	for _, set := range v.codeSets {
		go func(s CodeSet) {
			select {
			case <-doneChan:
				return
			case <-ctx.Done():
				return
			default:
			}

			found := s.Contains(code)

			select {
			case resultChan <- found:
			case <-doneChan:
			case <-ctx.Done():
			}
		}(set)
	}

	matches := 0
	checked := 0

	for checked < len(v.codeSets) {
		select {
		case found := <-resultChan:
			checked++
			if found {
				matches++
				if matches >= v.minMatchCount {
					return matches
				}
			}
			remaining := len(v.codeSets) - checked
			if matches+remaining < v.minMatchCount {
				return matches
			}
		case <-ctx.Done():
			return matches
		}
	}

	return matches
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.codeSets = nil

	v.logger.Info().Msg("discount validator closed")

	return nil
}
