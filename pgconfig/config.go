// Package pgconfig loads the tunable parameters the rest of the module
// reads at startup, generalized from
// dna_aligner/config/config.go's const block into a YAML-loadable struct
// (gopkg.in/yaml.v2, the same library the pack's other dependency-rich
// repo — i5heu-ouroboros-db — uses for its own config surface) so a
// deployment can retune without a rebuild.
package pgconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Block holds the core Block/Combine tunables (spec §4.2, §4.6).
type Block struct {
	// MaxGap is the minimum I/D run length that forces a CIGAR split
	// into its own ref-only/qry-only segment (spec §4.2).
	MaxGap int `yaml:"max_gap"`
	// ReconsensusMinDepth is the smallest depth at which Reconsensus
	// performs its plurality-vote recompute. block.Reconsensus applies a
	// fixed threshold of 3 and does not read this field.
	ReconsensusMinDepth int `yaml:"reconsensus_min_depth"`
}

// Aligner holds the reference aligner's tuning knobs (pgalign),
// carried over from dna_aligner's k-mer/extension/merge parameters.
type Aligner struct {
	DefaultK             int       `yaml:"default_k"`
	MinMatchLength       int       `yaml:"min_match_length"`
	DefaultMaxErrors     int       `yaml:"default_max_errors"`
	DefaultStride        int       `yaml:"default_stride"`
	ExtendMaxErrors      int       `yaml:"extend_max_errors"`
	MinIdentityThreshold float64   `yaml:"min_identity_threshold"`
	OverlapThreshold     float64   `yaml:"overlap_threshold"`
	AdjacentMergeMaxGap  int       `yaml:"adjacent_merge_max_gap"`
	FinalMergeMaxGap     int       `yaml:"final_merge_max_gap"`
	LowGCThreshold       float64   `yaml:"low_gc_threshold"`
	HighGCThreshold      float64   `yaml:"high_gc_threshold"`
	LowGCKValues         []int     `yaml:"low_gc_k_values"`
	MedGCKValues         []int     `yaml:"med_gc_k_values"`
	HighGCKValues        []int     `yaml:"high_gc_k_values"`
}

// Store holds the badger-backed persistence layer's tunables.
type Store struct {
	Dir            string `yaml:"dir"`
	ValueLogGB     int    `yaml:"value_log_gb"`
	SyncWrites     bool   `yaml:"sync_writes"`
}

// Config is the top-level, YAML-decodable configuration document.
type Config struct {
	Block   Block   `yaml:"block"`
	Aligner Aligner `yaml:"aligner"`
	Store   Store   `yaml:"store"`
	Verbose bool    `yaml:"verbose"`
}

// Default returns the module's built-in defaults, matching
// dna_aligner/config/config.go's const values for the aligner section
// and the documented defaults for the block section.
func Default() Config {
	return Config{
		Block: Block{
			MaxGap:              100,
			ReconsensusMinDepth: 3,
		},
		Aligner: Aligner{
			DefaultK:             10,
			MinMatchLength:       28,
			DefaultMaxErrors:     5,
			DefaultStride:        2,
			ExtendMaxErrors:      6,
			MinIdentityThreshold: 0.74,
			OverlapThreshold:     0.72,
			AdjacentMergeMaxGap:  32,
			FinalMergeMaxGap:     22,
			LowGCThreshold:       0.40,
			HighGCThreshold:      0.50,
			LowGCKValues:         []int{8, 9, 10},
			MedGCKValues:         []int{7, 8, 9},
			HighGCKValues:        []int{6, 7, 8},
		},
		Store: Store{
			Dir:        "./pangraph-data",
			ValueLogGB: 1,
			SyncWrites: false,
		},
	}
}

// Load reads a YAML config file, applying its contents over the
// built-in defaults so a partial file only overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pgconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pgconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
