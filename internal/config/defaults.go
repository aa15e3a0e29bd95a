package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider": "deepseek",
		"deepseek": map[string]interface{}{
			"api_key": "",
			"timeout": 60,
		},
		"ollama": map[string]interface{}{
			"base_url": "http://localhost:11434",
			"timeout":  120,
			"model":    "llama3.1",
			"format":   "json",
		},
		"model": map[string]interface{}{
			"name":        "deepseek-chat",
			"max_tokens":  512,
			"temperature": 0.2, // extraction, not conversation
		},
		"store": map[string]interface{}{
			"path": "~/.nevermiss/reminders.csv",
		},
		"log": map[string]interface{}{
			"level": "", // per command: warn for the REPL, info for servers
			"file":  "",
		},
		"server": map[string]interface{}{
			"addr": ":8080",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.nevermiss/config.yaml"
}
