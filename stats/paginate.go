package stats

import (
	"sort"
	"time"

	"github.com/remilekun/worklog/internal/period"
)

// Cursor marks the last period row a page returned. Pagination is
// keyset-based: the (start, session id, period index) triple is a total
// order over all period rows, so sessions inserted between calls can
// never make already-returned rows reappear or be skipped, which an
// offset count cannot guarantee.
type Cursor struct {
	Start       time.Time `json:"start"`
	SessionID   string    `json:"session_id"`
	PeriodIndex int       `json:"period_index"`
}

// PageRow is one period row of a paginated listing.
type PageRow struct {
	Session *period.Session
	Index   int
}

func (r *PageRow) Period() *period.Period {
	return &r.Session.Periods[r.Index]
}

func (r *PageRow) key() Cursor {
	return Cursor{
		Start:       r.Session.StartTime(),
		SessionID:   r.Session.ID,
		PeriodIndex: r.Index,
	}
}

func (c Cursor) equal(o Cursor) bool {
	return c.Start.Equal(o.Start) &&
		c.SessionID == o.SessionID &&
		c.PeriodIndex == o.PeriodIndex
}

// less orders rows by session start descending, then session id, then
// period index.
func (c Cursor) less(o Cursor) bool {
	if !c.Start.Equal(o.Start) {
		return c.Start.After(o.Start)
	}

	if c.SessionID != o.SessionID {
		return c.SessionID < o.SessionID
	}

	return c.PeriodIndex < o.PeriodIndex
}

// Page returns up to limit period rows after the cursor, plus the
// cursor for the following page. A nil cursor starts from the
// beginning; a nil next cursor means the listing is exhausted.
func Page(
	sessions []period.Session,
	f Filter,
	cursor *Cursor,
	limit int,
	now time.Time,
) ([]PageRow, *Cursor, error) {
	if err := f.validate(); err != nil {
		return nil, nil, err
	}

	start, end, err := f.Range(now)
	if err != nil {
		return nil, nil, err
	}

	var rows []PageRow

	for i := range sessions {
		sess := &sessions[i]

		if !f.matchSession(sess, start, end) {
			continue
		}

		for j := range sess.Periods {
			rows = append(rows, PageRow{Session: sess, Index: j})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].key().less(rows[j].key())
	})

	if cursor != nil {
		from := sort.Search(len(rows), func(i int) bool {
			k := rows[i].key()
			return !k.less(*cursor) && !k.equal(*cursor)
		})
		rows = rows[from:]
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	} else {
		return rows, nil, nil
	}

	next := rows[len(rows)-1].key()

	return rows, &next, nil
}
