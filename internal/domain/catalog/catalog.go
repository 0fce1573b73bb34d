// Package catalog provides read-only lookup of per-day content.
//
// Content is supplied as static data files loaded once at process start
// and assumed immutable for the process lifetime. The files are JSON with
// comments permitted (hand-maintained datasets), in three parts mirroring
// the campaign dataset layout: ideas, task lists, and reference links,
// each an array of day-keyed records.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Dataset file names looked up inside the data directory.
const (
	ideasFile = "ideas.json"
	tasksFile = "tasks.json"
	linksFile = "links.json"
)

// Entry is the content published for one cycle day.
type Entry struct {
	Day          int
	Title        string
	Summary      string
	ReferenceURL string   // empty when no long-form link exists
	Tasks        []string // ordered micro-challenge list, may be empty
}

// Catalog is an immutable day-indexed content lookup.
type Catalog struct {
	byDay map[int]Entry
}

type ideaRecord struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
	Short string `json:"short"`
}

type taskRecord struct {
	Day   int      `json:"day"`
	Tasks []string `json:"tasks"`
}

type linkRecord struct {
	Day int    `json:"day"`
	URL string `json:"url"`
}

// Load reads the dataset files from dir and builds the catalog. A missing
// file is treated as an empty dataset part; a file that exists but does
// not parse is a hard error. Days mentioned in any part get an entry.
func Load(dir string) (*Catalog, error) {
	var ideas []ideaRecord
	if err := loadPart(filepath.Join(dir, ideasFile), &ideas); err != nil {
		return nil, err
	}
	var tasks []taskRecord
	if err := loadPart(filepath.Join(dir, tasksFile), &tasks); err != nil {
		return nil, err
	}
	var links []linkRecord
	if err := loadPart(filepath.Join(dir, linksFile), &links); err != nil {
		return nil, err
	}

	c := &Catalog{byDay: make(map[int]Entry)}
	for _, rec := range ideas {
		e := c.byDay[rec.Day]
		e.Day = rec.Day
		e.Title = rec.Title
		e.Summary = rec.Short
		c.byDay[rec.Day] = e
	}
	for _, rec := range tasks {
		e := c.byDay[rec.Day]
		e.Day = rec.Day
		e.Tasks = rec.Tasks
		c.byDay[rec.Day] = e
	}
	for _, rec := range links {
		e := c.byDay[rec.Day]
		e.Day = rec.Day
		e.ReferenceURL = rec.URL
		c.byDay[rec.Day] = e
	}
	return c, nil
}

// loadPart decodes one dataset file into out, tolerating comments and
// trailing commas. Absent files leave out unchanged.
func loadPart(path string, out any) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadCatalog, path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(raw), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParseCatalog, path, err)
	}
	return nil
}

// Entry returns the content for day. Absence is a normal state: callers
// must degrade gracefully rather than fail the whole post.
func (c *Catalog) Entry(day int) (Entry, bool) {
	e, ok := c.byDay[day]
	return e, ok
}

// Tasks returns the ordered task list for day, or nil when the day has no
// content or no tasks.
func (c *Catalog) Tasks(day int) []string {
	return c.byDay[day].Tasks
}

// Days returns the number of days with any content. Used for startup
// logging and metrics.
func (c *Catalog) Days() int { return len(c.byDay) }
