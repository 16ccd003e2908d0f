package treescan

import (
	"encoding/json"
	"fmt"
	"io"
	"os/user"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ownerCache memoizes uid/gid name lookups. Trees tend to repeat a handful
// of owners, and user database lookups are comparatively slow.
type ownerCache struct {
	users  map[uint32]string
	groups map[uint32]string
}

func newOwnerCache() *ownerCache {
	return &ownerCache{
		users:  make(map[uint32]string),
		groups: make(map[uint32]string),
	}
}

// userName resolves a uid to a name, falling back to the numeric id.
func (c *ownerCache) userName(uid uint32) string {
	if name, ok := c.users[uid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	c.users[uid] = name
	return name
}

// groupName resolves a gid to a name, falling back to the numeric id.
func (c *ownerCache) groupName(gid uint32) string {
	if name, ok := c.groups[gid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(gid), 10)
	if g, err := user.LookupGroupId(name); err == nil {
		name = g.Name
	}
	c.groups[gid] = name
	return name
}

// TextRenderer writes tree lines and summary blocks as the scan proceeds.
// It is wired to an Engine through Sink, OnRootBegin, and OnRootEnd.
type TextRenderer struct {
	w      io.Writer
	flags  Flags
	num    *message.Printer
	owners *ownerCache
	tw     *tabwriter.Writer
	err    error
}

// NewTextRenderer creates a renderer for the given flags writing to w.
func NewTextRenderer(w io.Writer, flags Flags) *TextRenderer {
	return &TextRenderer{
		w:      w,
		flags:  flags,
		num:    message.NewPrinter(language.English),
		owners: newOwnerCache(),
	}
}

// Err returns the first write error encountered, if any.
func (r *TextRenderer) Err() error {
	return r.err
}

func (r *TextRenderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *TextRenderer) numf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = r.num.Fprintf(r.w, format, args...)
}

// BeginRoot prints the heading for one root. Verbose entry columns are
// buffered through a tabwriter that is flushed when the root ends.
func (r *TextRenderer) BeginRoot(path string) {
	if r.flags.Has(FlagSummary) {
		r.printf("\nDirectory: %s\n", path)
	} else if r.flags.Has(FlagTree) {
		r.printf("%s\n", path)
	}
	if r.flags.Has(FlagTree) && r.flags.Has(FlagVerbose) {
		r.tw = tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	}
}

// Sink emits one entry line. It satisfies the EventSink contract.
func (r *TextRenderer) Sink(ev Event) error {
	if !r.flags.Has(FlagTree) {
		return nil
	}
	indent := strings.Repeat("  ", ev.Depth+1)
	if r.flags.Has(FlagVerbose) {
		if r.tw == nil {
			r.tw = tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		}
		_, err := fmt.Fprintf(r.tw, "%s%s\t%s:%s\t%d\t%d\t%s\n",
			indent, ev.Entry.Name,
			r.owners.userName(ev.Entry.UID),
			r.owners.groupName(ev.Entry.GID),
			ev.Entry.Size, ev.Entry.Blocks,
			modeColumn(ev.Entry))
		return err
	}
	_, err := fmt.Fprintf(r.w, "%s%s\n", indent, ev.Entry.Name)
	return err
}

// EndRoot flushes any buffered verbose columns and prints the per-root
// summary block when summary mode is on.
func (r *TextRenderer) EndRoot(rep RootReport) {
	if r.tw != nil {
		if err := r.tw.Flush(); err != nil && r.err == nil {
			r.err = err
		}
		r.tw = nil
	}
	if !r.flags.Has(FlagSummary) {
		return
	}
	if rep.Outcome == OutcomeSkipped {
		r.printf("  (directory could not be read)\n")
	}
	r.numf("  # of files:        %d\n", rep.Stats.Files)
	r.numf("  # of directories:  %d\n", rep.Stats.Dirs)
	r.numf("  # of links:        %d\n", rep.Stats.Links)
	r.numf("  # of pipes:        %d\n", rep.Stats.Fifos)
	r.numf("  # of sockets:      %d\n", rep.Stats.Socks)
	r.printf("  total file size:   %s (%d bytes)\n", humanize.IBytes(rep.Stats.Size), rep.Stats.Size)
	r.numf("  total blocks:      %d\n", rep.Stats.Blocks)
}

// Total prints the grand-total block. It appears only in summary mode and
// only when more than one root was scanned; the size and block lines are
// gated on verbose mode.
func (r *TextRenderer) Total(res *ScanResult) {
	if !r.flags.Has(FlagSummary) || len(res.Roots) < 2 {
		return
	}
	r.numf("\nAnalyzed %d directories:\n", len(res.Roots))
	r.numf("  total # of files:        %16d\n", res.Total.Files)
	r.numf("  total # of directories:  %16d\n", res.Total.Dirs)
	r.numf("  total # of links:        %16d\n", res.Total.Links)
	r.numf("  total # of pipes:        %16d\n", res.Total.Fifos)
	r.numf("  total # of sockets:      %16d\n", res.Total.Socks)
	if r.flags.Has(FlagVerbose) {
		r.numf("  total file size:         %16d\n", res.Total.Size)
		r.numf("  total # of blocks:       %16d\n", res.Total.Blocks)
	}
}

// modeColumn renders the permissions column. Entries whose metadata lookup
// failed have a zero mode; fall back to the kind name so the column is
// never blank.
func modeColumn(ent Entry) string {
	if ent.Mode != 0 {
		return ent.Mode.String()
	}
	return ent.Kind.String()
}

// RenderJSON writes the scan result as indented JSON.
func RenderJSON(w io.Writer, res *ScanResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scan result: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return err
	}
	return nil
}
