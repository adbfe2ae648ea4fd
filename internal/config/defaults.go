// Package config provides configuration loading and defaults for eventwatch.
package config

// DefaultConfigDir is the default location for eventwatch configuration.
const DefaultConfigDir = "~/.config/eventwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "eventwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultTimezone is the zone check-in heatmaps are computed in.
const DefaultTimezone = "UTC"

// DefaultListenAddr is where `eventwatch serve` listens.
const DefaultListenAddr = ":8080"

// DefaultReport holds the default ranking sizes for feedback analysis.
var DefaultReport = Report{
	TopKeywords: 10,
	TopEmojis:   5,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
