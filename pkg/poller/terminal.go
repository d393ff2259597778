package poller

import (
	"fmt"
	"io"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/olekukonko/tablewriter"
)

const bell = "\a"

// TerminalAlerter prints the dashboard to a terminal. The bell character is
// the chime.
type TerminalAlerter struct {
	out      io.Writer
	location *time.Location
	rows     int
}

func NewTerminalAlerter(out io.Writer, loc *time.Location, rows int) *TerminalAlerter {
	if loc == nil {
		loc = time.Local
	}
	return &TerminalAlerter{out: out, location: loc, rows: rows}
}

func (a *TerminalAlerter) NewOrder(order models.Order) {
	fmt.Fprint(a.out, bell)
	fmt.Fprintf(a.out, "*** NEW ORDER #%d from %s: $%s ***\n", order.ID, order.CustomerName, order.Total.StringFixed(2))
}

func (a *TerminalAlerter) Refreshed(orders []models.Order, stats models.OrderStats) {
	fmt.Fprintf(a.out, "\n[%s] orders: %d (pending %d, confirmed %d, completed %d, cancelled %d) | today: %d / $%s | revenue: $%s (manual $%s)\n",
		time.Now().In(a.location).Format("15:04:05"),
		stats.TotalOrders, stats.Pending, stats.Confirmed, stats.Completed, stats.Cancelled,
		stats.TodayOrders, stats.TodayRevenue.StringFixed(2),
		stats.TotalRevenue.StringFixed(2), stats.ManualRevenue.StringFixed(2))

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return
	}
	if a.rows > 0 && len(orders) > a.rows {
		orders = orders[:a.rows]
	}

	table := tablewriter.NewWriter(a.out)
	table.Header("ID", "Customer", "Phone", "Items", "Total", "Status", "Placed")
	for _, o := range orders {
		_ = table.Append([]string{
			fmt.Sprintf("%d", o.ID),
			o.CustomerName,
			o.CustomerPhone,
			o.Items,
			"$" + o.Total.StringFixed(2),
			string(o.Status),
			o.CreatedAt.In(a.location).Format("Jan 2 3:04 PM"),
		})
	}
	_ = table.Render()
}
