// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestForId_KnownIds(t *testing.T) {
	t.Parallel()

	ids := []Id{
		BoardRequiredId,
		InvalidVersionFormatId,
		UnknownVariantId,
		ArchiveNotFoundId,
		ConfigLoadFailedId,
		ExtractionFailedId,
	}

	for _, id := range ids {
		iss := ForId(id)
		if iss == nil {
			t.Fatalf("ForId(%d) = nil, want registered issue", id)
		}
		if iss.Id() != id {
			t.Errorf("ForId(%d).Id() = %d", id, iss.Id())
		}
		if iss.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty markdown body", id)
		}
	}
}

func TestForId_UnknownId(t *testing.T) {
	t.Parallel()

	if iss := ForId(Id(9999)); iss != nil {
		t.Errorf("ForId(9999) = %v, want nil", iss)
	}
}

func TestAll_OrderedById(t *testing.T) {
	t.Parallel()

	issues := All()
	if len(issues) != 6 {
		t.Fatalf("All() returned %d issues, want 6", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Id() >= issues[i].Id() {
			t.Errorf("All() not sorted: index %d id %d >= index %d id %d",
				i-1, issues[i-1].Id(), i, issues[i].Id())
		}
	}
}

func TestArchiveNotFound_HasBuildStatusLink(t *testing.T) {
	t.Parallel()

	links := ForId(ArchiveNotFoundId).DocLinks()
	if len(links) == 0 {
		t.Fatal("archive-not-found card must carry a build status link")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := errors.New("object does not exist")
	err := NewErrorContext().
		WithOperation("locate archive").
		WithResource("stable/amd64-usr").
		WithSuggestion("Check the build status dashboard").
		Wrap(cause).
		Build()

	if !errors.Is(err, cause) {
		t.Error("ActionableError should unwrap to its cause")
	}

	got := err.Format(false)
	for _, want := range []string{"failed to locate archive", "stable/amd64-usr", "object does not exist", "Check the build status dashboard"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format(false) missing %q in:\n%s", want, got)
		}
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) missing error chain in:\n%s", verbose)
	}
}

func TestWrapWithOperation_NilErr(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil, ...) = %v, want nil", got)
	}
}
