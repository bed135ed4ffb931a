package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/quote"
)

// session maps text commands onto controller events and renders the view
// model after each one.
type session struct {
	ctrl *quote.Controller
	out  io.Writer
}

func newSession(cat catalog.Provider, pricer quote.Pricer, out io.Writer, logger *zap.Logger) *session {
	s := &session{out: out}
	s.ctrl = quote.NewController(cat, pricer,
		quote.WithLogger(logger),
		quote.WithNotifier(quote.NotifierFunc(s.notify)))
	return s
}

func (s *session) notify(n quote.Notification) {
	fmt.Fprintf(s.out, "[%s] %s\n", n.Severity, n.Text)
}

func (s *session) prompt() {
	fmt.Fprint(s.out, "> ")
}

// exec runs one command line and reports whether the session should end.
func (s *session) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "type":
		t, err := catalog.ParseType(arg)
		if err != nil {
			s.notify(quote.Notification{Severity: quote.SeverityWarn, Text: "Unknown type: " + arg})
			return false
		}
		if s.ctrl.SelectType(t) == nil {
			s.options()
		}
	case "variant":
		if s.ctrl.SelectVariant(arg) == nil {
			s.options()
		}
	case "months":
		n, err := strconv.Atoi(arg)
		if err != nil {
			s.notify(quote.Notification{Severity: quote.SeverityWarn, Text: "Months must be a number."})
			return false
		}
		s.ctrl.SelectMonths(n)
	case "qty":
		s.ctrl.EnterQty(arg)
	case "add":
		if s.ctrl.AddLine() == nil {
			s.cart()
		}
	case "remove":
		row, err := strconv.Atoi(arg)
		if err != nil || !s.ctrl.RemoveLine(row-1) {
			s.notify(quote.Notification{Severity: quote.SeverityWarn, Text: "No such line: " + arg})
			return false
		}
		s.cart()
	case "clear":
		s.ctrl.ClearCart()
	case "discount":
		s.ctrl.SelectDiscount(catalog.DiscountChoice(arg))
	case "upfront":
		switch strings.ToLower(arg) {
		case "yes", "y":
			s.ctrl.SelectUpfront(true)
		case "no", "n":
			s.ctrl.SelectUpfront(false)
		default:
			s.notify(quote.Notification{Severity: quote.SeverityWarn, Text: "Upfront is yes or no."})
		}
	case "calc", "calculate":
		s.ctrl.Calculate(ctx)
	case "show":
		s.show()
	case "options":
		s.options()
	case "help":
		s.help()
	case "quit", "exit":
		return true
	default:
		s.notify(quote.Notification{Severity: quote.SeverityWarn, Text: "Unknown command: " + cmd + " (try help)"})
	}
	return false
}

// complete hands a pricing completion to the controller and shows the
// result when it applied.
func (s *session) complete(comp quote.Completion) {
	s.ctrl.HandleCompletion(comp)
	if s.ctrl.State() == quote.StateSucceeded {
		s.result(s.ctrl.View().Quote)
	}
}

// =============================================================================
// RENDERING
// =============================================================================

func (s *session) options() {
	v := s.ctrl.View()
	if v.Options.VariantEnabled {
		fmt.Fprintf(s.out, "  variants: %s\n", strings.Join(v.Options.Variants, ", "))
	}
	if v.Options.MonthsEnabled {
		months := make([]string, len(v.Options.Months))
		for i, m := range v.Options.Months {
			months[i] = strconv.Itoa(m)
		}
		fmt.Fprintf(s.out, "  months:   %s\n", strings.Join(months, ", "))
	}
	if !v.Options.UpfrontVisible {
		fmt.Fprintln(s.out, "  upfront:  n/a")
	}
}

func (s *session) cart() {
	v := s.ctrl.View().Cart
	for _, row := range v.Rows {
		fmt.Fprintf(s.out, "  %d. %s\n", row.Index+1, row.Label)
	}
	fmt.Fprintf(s.out, "  6+ buses: %s (%d exterior)\n", v.Hint.Label, v.Hint.ExteriorQty)
}

func (s *session) show() {
	v := s.ctrl.View()
	fmt.Fprintf(s.out, "  selection: type=%s variant=%s months=%d qty=%q\n", v.Type, v.Variant, v.Months, v.Qty)
	upfront := "no"
	if v.Upfront {
		upfront = "yes"
	}
	fmt.Fprintf(s.out, "  discount:  %s  upfront: %s  request: %s\n", v.Discount, upfront, v.Request)
	s.cart()
	if v.Quote != nil {
		s.result(v.Quote)
	}
}

func (s *session) result(q *quote.QuoteView) {
	if q == nil {
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Type\tProduct/Size\tCode\tMonths\tQty\tUnit Price\tLine Total\t")
	for _, l := range q.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t\n", l.TypeDisplay, l.Product, l.Code, l.Months, l.Qty, l.UnitPrice, l.LineTotal)
	}
	tw.Flush()
	fmt.Fprintf(s.out, "  Subtotal: %s  Total: %s  Saved: %s\n", q.Subtotal, q.Total, q.Saved)
	fmt.Fprintf(s.out, "  Discounts: %s\n", q.Flags)
}

func (s *session) help() {
	fmt.Fprint(s.out, `  type <Exterior|Interior>   variant <name>   months <n>   qty <n>
  add | remove <row> | clear
  discount <None|Agency 10%|PSA 10%>   upfront <yes|no>
  calc | show | options | quit
`)
}
