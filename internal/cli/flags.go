package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/exchange"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value restricted to the node status wire names.
type statusValue struct {
	status domain.NodeStatus
}

var _ pflag.Value = (*statusValue)(nil)

func (v *statusValue) String() string { return string(v.status) }
func (v *statusValue) Type() string   { return "status" }

func (v *statusValue) Set(s string) error {
	st, err := domain.ParseNodeStatus(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	v.status = st
	return nil
}

// formatValue is a pflag.Value for the export/import document format.
type formatValue struct {
	format exchange.Format
}

var _ pflag.Value = (*formatValue)(nil)

func (v *formatValue) String() string { return string(v.format) }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(s string) error {
	f, err := exchange.ParseFormat(s)
	if err != nil {
		return err
	}
	v.format = f
	return nil
}

// dueValue accepts YYYY-MM-DD, or "none" to clear the due date.
type dueValue struct {
	date  *time.Time
	clear bool
}

var _ pflag.Value = (*dueValue)(nil)

func (v *dueValue) Type() string { return "date" }

func (v *dueValue) String() string {
	switch {
	case v.clear:
		return "none"
	case v.date != nil:
		return v.date.Format(time.DateOnly)
	default:
		return ""
	}
}

func (v *dueValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		v.date, v.clear = nil, true
		return nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD or none)", s)
	}
	v.date, v.clear = &d, false
	return nil
}
