package seal

import "testing"

// LowerKDFParamsForTest swaps in cheap argon2 parameters for the duration
// of the test.
func LowerKDFParamsForTest(t testing.TB) {
	t.Helper()
	original := getKDFParams()
	setKDFParams(TestKDFParams())
	t.Cleanup(func() {
		setKDFParams(original)
	})
}
