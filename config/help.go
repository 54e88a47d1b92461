package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `swiftdrop - local courier booking service

Usage:
  swiftdrop [-config-path config.yaml]

Configuration is read from the YAML file, overridable with environment
variables (SERVER_PORT, REDIS_HOST, RABBITMQ_HOST, OPENROUTESERVICE_API_KEY,
AUTH_JWT_SECRET, LOG_LEVEL, ...).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig dumps the effective configuration, masking secrets.
func PrintConfig(cfg *Config) {
	fmt.Printf("server.port:     %s\n", cfg.Server.Port)
	fmt.Printf("redis.addr:      %s\n", cfg.Redis.GetAddr())
	fmt.Printf("rabbitmq.host:   %s:%s\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	fmt.Printf("ors.key set:     %t\n", cfg.ExternalAPIConfig.OpenRouteServiceKey != "")
	fmt.Printf("log.level:       %s\n", cfg.Log.Level)
}
