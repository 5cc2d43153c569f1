// Package config loads the setup wizard's configuration.
//
// Configuration is layered, later layers winning:
//
//  1. Built-in defaults (GetDefaultConfig)
//  2. config.yaml in the configuration directory
//  3. Environment variables (GITHUB_CLIENT_ID, TERRATEAM_DEV_MODE, ...)
//
// Command-line flags are applied on top by the cmd package.
//
// Example config.yaml:
//
//	server:
//	  host: localhost
//	  port: 3000
//	github:
//	  clientId: Iv1.0123456789abcdef
//	  clientSecret: secret
//	tunnel:
//	  enabled: true
//	sessions:
//	  maxAge: 24h
//	  sweepInterval: 1h
package config
