package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "Development Defaults",
			cfg: Config{
				Port:          "8196",
				SessionSecret: "mosaic-dev-secret-change-in-production",
				Env:           "development",
			},
		},
		{
			name:    "Missing Port",
			cfg:     Config{SessionSecret: "secret"},
			wantErr: true,
		},
		{
			name:    "Missing Secret",
			cfg:     Config{Port: "8196"},
			wantErr: true,
		},
		{
			name: "Production Default Secret Rejected",
			cfg: Config{
				Port:          "8196",
				SessionSecret: "mosaic-dev-secret-change-in-production",
				Env:           "production",
			},
			wantErr: true,
		},
		{
			name: "Production Short Secret Rejected",
			cfg: Config{
				Port:          "8196",
				SessionSecret: "short",
				DBPassword:    "0cc45a1b06ad8c1f",
				Env:           "production",
			},
			wantErr: true,
		},
		{
			name: "Production Weak DB Password Rejected",
			cfg: Config{
				Port:          "8196",
				SessionSecret: "a-long-production-session-secret-value!",
				DBPassword:    "mosaic",
				Env:           "production",
			},
			wantErr: true,
		},
		{
			name: "Production Valid",
			cfg: Config{
				Port:          "8196",
				SessionSecret: "a-long-production-session-secret-value!",
				DBPassword:    "0cc45a1b06ad8c1f",
				DBSSLMode:     "require",
				Env:           "production",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
