package dnshost

// accountNamePrefix is the fixed prefix for vendor account names. The
// derived name doubles as the vendor-side lookup key during discovery, so
// the derivation must never vary.
const accountNamePrefix = "Account for "

// AccountName derives the canonical vendor account name for a domain.
// No case-folding or trimming is applied beyond the domain name's own value.
func AccountName(domainName string) string {
	return accountNamePrefix + domainName
}

// accountIDByName scans a vendor account list for an exact name match and
// returns the first matching id. Lists are small (tens of entries), so a
// linear scan is fine.
func accountIDByName(accounts []VendorAccount, name string) (string, bool) {
	for _, a := range accounts {
		if a.Name == name {
			return a.ID, true
		}
	}
	return "", false
}

// zoneIDByName scans a vendor zone list for an exact name match and returns
// the first matching id
func zoneIDByName(zones []VendorZone, name string) (string, bool) {
	for _, z := range zones {
		if z.Name == name {
			return z.ID, true
		}
	}
	return "", false
}
