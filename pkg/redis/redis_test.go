package redis

import "testing"

func TestOptionsFromEnv(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		db     string
		wantA  string
		wantDB int
	}{
		{"defaults", "", "", "localhost:6379", 0},
		{"configured", "cache:6380", "3", "cache:6380", 3},
		{"bad db", "cache:6380", "x", "cache:6380", 0},
		{"negative db", "cache:6380", "-2", "cache:6380", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_ADDRESS", tt.addr)
			t.Setenv("REDIS_DB", tt.db)
			t.Setenv("REDIS_PASSWORD", "pw")

			opts := optionsFromEnv()
			if opts.Addr != tt.wantA || opts.DB != tt.wantDB || opts.Password != "pw" {
				t.Errorf("options = %+v", opts)
			}
		})
	}
}

func TestAnalysisKey(t *testing.T) {
	if got := analysisKey("01HX"); got != "ubas:analysis:01HX" {
		t.Errorf("analysisKey = %q", got)
	}
}
