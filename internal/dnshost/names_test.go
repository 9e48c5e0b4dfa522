package dnshost

import "testing"

func TestAccountName(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected string
	}{
		{
			name:     "simple domain",
			domain:   "igorville.gov",
			expected: "Account for igorville.gov",
		},
		{
			name:     "subdomain-like name is kept verbatim",
			domain:   "cityof.igorville.gov",
			expected: "Account for cityof.igorville.gov",
		},
		{
			name:     "no case folding",
			domain:   "IgorVille.GOV",
			expected: "Account for IgorVille.GOV",
		},
		{
			name:     "no trimming beyond the domain's own value",
			domain:   " igorville.gov ",
			expected: "Account for  igorville.gov ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AccountName(tt.domain)
			if result != tt.expected {
				t.Errorf("AccountName(%q) = %q; want %q", tt.domain, result, tt.expected)
			}
		})
	}
}

func TestAccountIDByName(t *testing.T) {
	accounts := []VendorAccount{
		{ID: "a1", Name: "Account for one.gov"},
		{ID: "a2", Name: "Account for two.gov"},
		{ID: "a3", Name: "Account for two.gov"}, // duplicate name, first wins
	}

	id, ok := accountIDByName(accounts, "Account for two.gov")
	if !ok || id != "a2" {
		t.Errorf("Expected first match a2, got %q (found=%v)", id, ok)
	}

	if _, ok := accountIDByName(accounts, "Account for three.gov"); ok {
		t.Error("Expected no match for unknown name")
	}

	if _, ok := accountIDByName(nil, "anything"); ok {
		t.Error("Expected no match on empty list")
	}
}

func TestZoneIDByName(t *testing.T) {
	zones := []VendorZone{
		{ID: "z1", Name: "one.gov"},
		{ID: "z2", Name: "two.gov"},
	}

	id, ok := zoneIDByName(zones, "two.gov")
	if !ok || id != "z2" {
		t.Errorf("Expected z2, got %q (found=%v)", id, ok)
	}

	if _, ok := zoneIDByName(zones, "THREE.gov"); ok {
		t.Error("Expected exact-match semantics, no match for unknown name")
	}
}
