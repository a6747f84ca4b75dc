/*
Package config loads runtime parameters for the agglomeration and NBLAST
pipelines from a TOML file, mirroring how server/config.go's tomlConfig
loads DVID's server settings. The core packages (segmentation, nblast)
never read this file themselves; a host application loads a Config and
passes its fields into the pipeline constructors.
*/
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AgglomerationConfig parameterizes segmentation.GreedyMergeUntil.
type AgglomerationConfig struct {
	// Threshold is the mean-affinity stopping value; merges with
	// mean < Threshold are not performed.
	Threshold float64 `toml:"threshold"`
}

// NBLASTConfig parameterizes nblast.NewKDTree and nblast.NewVectorCloud.
type NBLASTConfig struct {
	// NearestNodeNum is the k used both for the default k-d tree leaf
	// threshold and for the local-PCA tangent neighborhood.
	NearestNodeNum int `toml:"nearest_node_num"`
	// LeafSize overrides the k-d tree leaf threshold when nonzero; zero
	// means "use NearestNodeNum" as the leaf threshold too.
	LeafSize int `toml:"leaf_size"`
}

// Logging mirrors dvid.LogConfig / rlog.FileConfig for TOML decoding.
type LoggingConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_log_size"`
	MaxAge  int    `toml:"max_log_age"`
}

// Config is the top-level decoded TOML document.
type Config struct {
	Agglomeration AgglomerationConfig `toml:"agglomeration"`
	NBLAST        NBLASTConfig        `toml:"nblast"`
	Logging       LoggingConfig       `toml:"logging"`
}

// defaults gives a caller loading a partial TOML file a working pipeline
// (k=20, leaf threshold = k) without requiring every field be set.
func defaults() Config {
	return Config{
		NBLAST: NBLASTConfig{
			NearestNodeNum: 20,
		},
	}
}

// Load decodes a TOML file at path into a Config seeded with defaults.
// Fields absent from the file keep their default value.
func Load(path string) (Config, error) {
	c := defaults()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return c, nil
}

// Decode decodes TOML text directly, for embedding configuration in tests
// or in a caller's own config file format.
func Decode(text string) (Config, error) {
	c := defaults()
	if _, err := toml.Decode(text, &c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// ResolvedLeafSize returns the effective k-d tree leaf threshold.
func (c NBLASTConfig) ResolvedLeafSize() int {
	if c.LeafSize > 0 {
		return c.LeafSize
	}
	return c.NearestNodeNum
}
