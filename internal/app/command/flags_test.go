package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDotEnvPath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := map[string]struct {
		args []string
		want string
	}{
		"no flag":          {args: []string{"lint"}, want: filepath.Join(cwd, ".env")},
		"long flag":        {args: []string{"--working-dir", "/srv/app", "lint"}, want: "/srv/app/.env"},
		"long flag equals": {args: []string{"lint", "--working-dir=/srv/app"}, want: "/srv/app/.env"},
		"short flag":       {args: []string{"-w", "/srv/app", "lint"}, want: "/srv/app/.env"},
		"short attached":   {args: []string{"-w/srv/app", "lint"}, want: "/srv/app/.env"},
		"short equals":     {args: []string{"-w=/srv/app", "lint"}, want: "/srv/app/.env"},
		"last one wins":    {args: []string{"-w", "/a", "--working-dir", "/b"}, want: "/b/.env"},
		"after separator":  {args: []string{"render", "--", "-w", "/srv/app"}, want: filepath.Join(cwd, ".env")},
		"missing value":    {args: []string{"lint", "-w"}, want: filepath.Join(cwd, ".env")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, DotEnvPath(tc.args))
		})
	}
}
