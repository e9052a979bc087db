package gcskv

import "testing"

func TestObjectNaming(t *testing.T) {
	tests := []struct {
		folder string
		key    string
		want   string
	}{
		{"ledgers", "SavedTransactions_ann@example.com", "ledgers/SavedTransactions_ann@example.com.json"},
		{"/ledgers/", "SavedTransactions_", "ledgers/SavedTransactions_.json"},
		{"", "SavedTransactions_bob", "SavedTransactions_bob.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := &Store{bucket: "b", folder: trimFolder(tt.folder)}
			got := s.ObjectName(tt.key)
			if got != tt.want {
				t.Errorf("ObjectName(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if back := s.keyFromObject(got); back != tt.key {
				t.Errorf("keyFromObject(%q) = %q, want %q", got, back, tt.key)
			}
		})
	}
}
