// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	reserved := []string{"CON", "con", "Con", "NUL", "com1", "LPT9", "con.txt", "AUX.py"}
	for _, name := range reserved {
		if !IsWindowsReservedName(name) {
			t.Errorf("IsWindowsReservedName(%q) = false, expected true", name)
		}
	}

	allowed := []string{"", "console", "com10", "init", "__init__.py", "naux"}
	for _, name := range allowed {
		if IsWindowsReservedName(name) {
			t.Errorf("IsWindowsReservedName(%q) = true, expected false", name)
		}
	}
}
