package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-d", "survey.db", "-a", "http://localhost:5000"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "survey.db"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-n=7", "-a", "http://localhost:5000"},
			allowedFlags: []string{"-n"},
			want:         []string{"-n=7"},
		},
		{
			name:         "order preserved across forms",
			args:         []string{"-c=first.json", "-n", "3", "-x", "1"},
			allowedFlags: []string{"-c", "-n"},
			want:         []string{"-c=first.json", "-n", "3"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "dash token is not a value",
			args:         []string{"-c", "-w"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "equals value may start with dash",
			args:         []string{"-config=--odd.json"},
			allowedFlags: []string{"-config"},
			want:         []string{"-config=--odd.json"},
		},
		{
			name:         "repeated flag preserved",
			args:         []string{"-o", "http://a", "-o", "http://b"},
			allowedFlags: []string{"-o"},
			want:         []string{"-o", "http://a", "-o", "http://b"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/survey/client.json"}, "/etc/survey/client.json"},
		{"long", []string{"-config", "/etc/survey/server.json"}, "/etc/survey/server.json"},
		{"equals form", []string{"-c=conf.json", "-a", "x"}, "conf.json"},
		{"unknown flags only", []string{"-x", "1", "-y", "2"}, ""},
		{"last wins", []string{"-c", "1.json", "-config", "2.json"}, "2.json"},
		{"no args", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
