// Package config provides configuration management for Quarry.
//
// A single EngineConfig describes a process: ingestion defaults, the named
// datasets served through the dataset cache, logging and observability.
//
// # Key Features
//
// - EngineConfig with yaml and json tags
// - Environment variable substitution with ${VAR_NAME} syntax
// - Automatic defaults and validation
//
// # Usage
//
//	cfg, err := config.LoadEngineConfig("quarry.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # YAML Configuration Example
//
//	ingest:
//	  separator: ","
//	  encoding: utf-8
//	  workers: 8
//	  infer_types: true
//	  parallel: true
//	datasets:
//	  - name: sales
//	    path: ${DATA_DIR}/sales.csv
//	  - name: weather
//	    path: ${DATA_DIR}/weather.tsv
//	    separator: "\t"
//	logging:
//	  level: info
//	observability:
//	  enable_metrics: true
//	  metrics_addr: ":9090"
package config
