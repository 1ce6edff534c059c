package migrate

import "testing"

func TestToDriverURL(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"postgresql scheme", "postgresql://u:p@host:5432/db", "pgx5://u:p@host:5432/db"},
		{"postgres scheme", "postgres://u:p@host/db?sslmode=disable", "pgx5://u:p@host/db?sslmode=disable"},
		{"already driver url", "pgx5://u:p@host/db", "pgx5://u:p@host/db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toDriverURL(tt.uri); got != tt.want {
				t.Errorf("toDriverURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Error("no migrations embedded")
	}
}
