package permission

import "testing"

func TestFromBool(t *testing.T) {
	if FromBool(true) != Granted || !FromBool(true).IsGranted() {
		t.Error("true must map to Granted")
	}
	if FromBool(false) != Denied || FromBool(false).IsGranted() {
		t.Error("false must map to Denied")
	}
}
