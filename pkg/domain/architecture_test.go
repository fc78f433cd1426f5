package domain

import (
	"testing"

	"subprofile/testutil"
)

// The domain package is imported by every layer; it must stay free of
// internal implementation packages and of third-party modules.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not depend on internal packages")
	testutil.AssertNoDirectImports(t, ".", testutil.NonStdlibImportForbidden, "domain must only use the standard library")
}
