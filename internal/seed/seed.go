package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/aquaflow/internal/model"
)

//go:embed data/demo.json
var demoJSON []byte

// Threshold keys accepted by Options.Thresholds.
const (
	KeyHighBalance    = "high_balance"
	KeyInactiveDays   = "inactive_days"
	KeyLowStock       = "low_stock"
	KeyMissingBottle  = "missing_bottle"
	KeyPricePerBottle = "price_per_bottle"
	KeyCashTolerance  = "cash_tolerance"
)

// ThresholdKeys lists every key accepted by Options.Thresholds.
var ThresholdKeys = []string{
	KeyHighBalance, KeyInactiveDays, KeyLowStock,
	KeyMissingBottle, KeyPricePerBottle, KeyCashTolerance,
}

// Options adjusts the seeded document.
type Options struct {
	// Thresholds overrides config values by key. Values must be >= 0.
	Thresholds map[string]int64
}

// Demo returns a fresh copy of the demo document with opts applied.
func Demo(opts Options) (*model.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(demoJSON))
	dec.DisallowUnknownFields()

	var doc model.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode demo dataset: %w", err)
	}
	doc.SchemaVersion = model.SchemaVersion
	doc.Normalize()

	if err := applyThresholds(&doc.Config, opts.Thresholds); err != nil {
		return nil, err
	}
	return &doc, nil
}

// MustDemo is Demo with no options, panicking on error. Intended for tests.
func MustDemo() *model.Document {
	doc, err := Demo(Options{})
	if err != nil {
		panic(err)
	}
	return doc
}

// Empty returns a document with the demo config and no records.
func Empty() *model.Document {
	doc := &model.Document{SchemaVersion: model.SchemaVersion}
	doc.Config = MustDemo().Config
	doc.Normalize()
	return doc
}

func applyThresholds(cfg *model.Config, overrides map[string]int64) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := overrides[k]
		if v < 0 {
			return fmt.Errorf("threshold %s: must be >= 0, got %d", k, v)
		}
		switch strings.ToLower(k) {
		case KeyHighBalance:
			cfg.HighBalanceThreshold = v
		case KeyInactiveDays:
			cfg.InactiveDaysThreshold = v
		case KeyLowStock:
			cfg.LowStockThreshold = v
		case KeyMissingBottle:
			cfg.MissingBottleAlertThreshold = v
		case KeyPricePerBottle:
			cfg.PricePerBottle = v
		case KeyCashTolerance:
			cfg.CashMismatchTolerance = v
		default:
			return fmt.Errorf("unknown threshold %q", k)
		}
	}
	return nil
}
