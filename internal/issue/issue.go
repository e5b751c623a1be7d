// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a diagnostic card.
type Id int

const (
	BoardRequiredId Id = iota + 1
	InvalidVersionFormatId
	UnknownVariantId
	ArchiveNotFoundId
	ConfigLoadFailedId
	ExtractionFailedId
)

// MarkdownMsg is the markdown body of a card.
type MarkdownMsg string

// HttpLink is a URL shown in a card's "See also" section.
type HttpLink string

// Issue is a renderable diagnostic card for a headline failure mode.
type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // where a human can check build status or docs
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render produces the terminal-styled card text.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	boardRequiredIssue = &Issue{
		id: BoardRequiredId,
		mdMsg: `
# No board specified!

Every fetch needs a target board, and none was given.

## Things you can try:
- Pass the board explicitly:
~~~
$ imgfetch fetch --board amd64-usr test
~~~

- Set a default board in the environment:
~~~
$ export IMGFETCH_BOARD=amd64-usr
~~~

- Or persist one in your config file:
~~~cue
default_board: "amd64-usr"
~~~`,
	}

	invalidVersionFormatIssue = &Issue{
		id: InvalidVersionFormatId,
		mdMsg: `
# Unrecognized version pattern!

Version selectors must be empty (meaning "latest"), a full version, or a
numeric fragment. Nothing was looked up remotely — the pattern was
rejected before any network access.

## Accepted forms:
- ` + "`R18-1650.0.0`" + ` — a full version
- ` + "`1650.0.0`" + ` or ` + "`1650`" + ` — a numeric fragment
- *(empty)* — the newest available version

## Things you can try:
- Drop the ` + "`--version`" + ` flag entirely to get the latest build
- Copy the version string verbatim from the build dashboard`,
	}

	unknownVariantIssue = &Issue{
		id: UnknownVariantId,
		mdMsg: `
# Unknown image variant!

Variants are a fixed, closed set — an unrecognized name is an input
error, not a lookup miss.

## Known variants:
| Name | Image file |
|---|---|
| base | flatcar_base_image.bin |
| dev | flatcar_developer_image.bin |
| test | flatcar_test_image.bin |
| qemu | flatcar_developer_qemu_image.bin |
| recovery | recovery_image.bin |

## Things you can try:
- List the variant table:
~~~
$ imgfetch variants
~~~`,
	}

	archiveNotFoundIssue = &Issue{
		id: ArchiveNotFoundId,
		mdMsg: `
# No matching archive found!

The remote listing for this channel and board produced no archive
matching the requested version selector.

## Things you can try:
- Check that the board finished building for this channel — recent
  builds sometimes lag the dashboard
- Widen the selector (drop ` + "`--version`" + ` to take the latest)
- Double-check the channel; boards are not built on every channel`,
		docLinks: []HttpLink{
			"https://www.flatcar.org/releases",
		},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file contains syntax errors or values the schema rejects.

## Things you can try:
- Check the error message above for the specific line/column
- Show the resolved config file location:
~~~
$ imgfetch config path
~~~

## Example of a valid config:
~~~cue
bucket:          "flatcar-image-archive"
default_channel: "stable"
default_board:   "amd64-usr"
cache: keep: 12
~~~`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Archive extraction failed!

The cached archive could not be fully extracted. Files already written
are left in place; re-running the same fetch after fixing the cause is
safe and will overwrite them.

## Common causes:
- Disk full under the cache root
- A truncated download that happened to pass the size check

## Things you can try:
- Clear the board's cache and fetch again:
~~~
$ imgfetch cache clear --board <board>
$ imgfetch fetch --board <board>
~~~`,
	}

	registry = map[Id]*Issue{
		BoardRequiredId:        boardRequiredIssue,
		InvalidVersionFormatId: invalidVersionFormatIssue,
		UnknownVariantId:       unknownVariantIssue,
		ArchiveNotFoundId:      archiveNotFoundIssue,
		ConfigLoadFailedId:     configLoadFailedIssue,
		ExtractionFailedId:     extractionFailedIssue,
	}
)

// ForId returns the Issue registered for id, or nil if none exists.
func ForId(id Id) *Issue {
	return registry[id]
}

// All returns every registered Issue ordered by Id.
func All() []*Issue {
	ids := maps.Keys(registry)
	slices.Sort(ids)
	issues := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		issues = append(issues, registry[id])
	}
	return issues
}
