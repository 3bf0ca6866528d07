package banner

import (
	"fmt"

	"courier/pkg/config"
)

const banner = `
 ██████╗ ██████╗ ██╗   ██╗██████╗ ██╗███████╗██████╗
██╔════╝██╔═══██╗██║   ██║██╔══██╗██║██╔════╝██╔══██╗
██║     ██║   ██║██║   ██║██████╔╝██║█████╗  ██████╔╝
██║     ██║   ██║██║   ██║██╔══██╗██║██╔══╝  ██╔══██╗
╚██████╗╚██████╔╝╚██████╔╝██║  ██║██║███████╗██║  ██║
 ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚═╝  ╚═╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(cfg *config.Config, addr, dbPath, source, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config:   %s\n", source)
	}
	if cfg != nil {
		fmt.Printf("Program:  %s\n", orUnset(cfg.Program.ID))
		fmt.Printf("Vault:    %s\n", orUnset(cfg.Program.Vault))
	}

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/instructions - Submit a signed instruction call")
	fmt.Println("GET  /v1/accounts/{key} - Raw account at a base58 address")
	fmt.Println("GET  /v1/profiles/{owner} - Profile derived from its owner")
	fmt.Println("GET  /v1/threads/{a}/{b} - Thread for a participant pair")

	fmt.Println("\n== Production? =================================================")
	if cfg != nil {
		if n := len(cfg.Security.APIKeys.Backend); n > 0 {
			fmt.Printf("- API keys: OK (%d)\n", n)
		} else if cfg.Security.APIKeys.AllowUnauth {
			fmt.Println("- API keys: NONE (unauthenticated access allowed)")
		} else {
			fmt.Println("- API keys: MISSING (set security.api_keys.backend)")
		}
		if cfg.Server.TLS.CertFile != "" && cfg.Server.TLS.KeyFile != "" {
			fmt.Println("- TLS: configured")
		} else {
			fmt.Println("- TLS: unconfigured")
		}
		if cfg.Storage.CheckpointCron != "" {
			fmt.Printf("- Checkpoints: enabled (cron=%s)\n", cfg.Storage.CheckpointCron)
		} else {
			fmt.Println("- Checkpoints: disabled")
		}
	}

	fmt.Println("\n== Logs: =================================================")
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
