// Package config loads trellis.yaml, the configuration of the trellis
// command.
//
// # Configuration File Structure
//
//	runtime:
//	  async: true
//	  maxUpdateCount: 100
//	log:
//	  level: info
//	  format: text
//	render:
//	  pretty: true
//	serve:
//	  host: localhost
//	  port: 3000
//	  tickInterval: 1s
//	  metricsPath: /metrics
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rt := reactive.NewRuntime(cfg.RuntimeOptions()...)
package config
