package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

func changeMessage(studentName, className, assignmentName, action string) string {
	return fmt.Sprintf(`Dear %s,<br>
<br>
An assignment has been updated in one of your classes:<br>
<br>
Assignment '%s' was %sd for class '%s'.<br>
<br>
We hope you have a great day,<br>
Assignment Organizer`, studentName, assignmentName, action, className)
}

// CompileDigest renders the daily digest for events, grouped by origin in
// stable sort-key order. It returns "" when there is nothing due.
func CompileDigest(studentName string, events []models.Event) string {
	if len(events) == 0 {
		return ""
	}

	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Origin.SortKey() < sorted[j].Origin.SortKey()
	})

	var b strings.Builder
	current := sorted[0].Origin
	fmt.Fprintf(&b, "For %s:<br>", current.Label())
	for _, ev := range sorted {
		if ev.Origin != current {
			current = ev.Origin
			fmt.Fprintf(&b, "For %s:<br>", current.Label())
		}
		fmt.Fprintf(&b, "&emsp;%s<br>", ev.Summary)
	}

	return fmt.Sprintf(`Dear %s,<br>
<br>
You have some assignments due today:<br>
<br>
%s<br>
<br>
Good luck on your classes,<br>
Assignment Organizer`, studentName, b.String())
}
