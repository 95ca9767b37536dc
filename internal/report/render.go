package report

import (
	"fmt"
	"io"
	"strings"
)

// Console renditions of the reports.

const timestampLayout = "2006-01-02 15:04:05"

// RenderMonthly writes the monthly report as console text.
func RenderMonthly(w io.Writer, r MonthlyReport) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "SAFE SHELTER - MONTHLY REPORT: %s\n", r.Month)
	fmt.Fprintln(&b, rule)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "MONTHLY STATISTICS")
	fmt.Fprintf(&b, "   New Residents: %d\n", r.NewResidents)
	fmt.Fprintf(&b, "   Total Residents: %d\n", r.TotalResidents)

	fmt.Fprintln(&b)
	if len(r.Services) == 0 {
		fmt.Fprintln(&b, "No services recorded this month")
	} else {
		fmt.Fprintln(&b, "SERVICES PROVIDED")
		for _, tc := range r.Services {
			fmt.Fprintf(&b, "   %s: %d\n", tc.ServiceType, tc.Count)
		}
		fmt.Fprintf(&b, "   Total Services: %d\n", r.TotalServices)
	}

	// The ranking window is non-empty whenever any resident exists.
	if r.TotalResidents > 0 || len(r.TopResidents) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "TOP RESIDENTS BY SERVICES")
		for _, a := range r.TopResidents {
			fmt.Fprintf(&b, "   %s: %d services\n", a.FullName(), a.Services)
		}
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSystem writes the system report as console text.
func RenderSystem(w io.Writer, r SystemReport) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "SAFE SHELTER - COMPREHENSIVE SYSTEM REPORT")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(timestampLayout))
	fmt.Fprintln(&b, rule)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SYSTEM OVERVIEW")
	fmt.Fprintf(&b, "   Total Residents: %d\n", r.TotalResidents)
	fmt.Fprintf(&b, "   Total Services Provided: %d\n", r.TotalServices)
	fmt.Fprintf(&b, "   Unique Service Types: %d\n", r.ServiceTypes)
	fmt.Fprintf(&b, "   Active Months (with services): %d\n", r.ActiveMonths)

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "RECENT ACTIVITY (Last %d days)\n", RecentWindowDays)
	fmt.Fprintf(&b, "   New Residents: %d\n", r.RecentResidents)
	fmt.Fprintf(&b, "   Services Provided: %d\n", r.RecentServices)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SERVICE BREAKDOWN")
	for _, ts := range r.Breakdown {
		fmt.Fprintf(&b, "   %s: %d sessions, %d residents\n", ts.ServiceType, ts.Sessions, ts.Residents)
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "CURRENT MONTH (%s)\n", r.CurrentMonth)
	fmt.Fprintf(&b, "   New Residents This Month: %d\n", r.MonthResidents)
	fmt.Fprintf(&b, "   Services This Month: %d\n", r.MonthServices)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
