package email

import (
	"strings"
	"testing"
)

func TestRenderLeadsAssigned(t *testing.T) {
	subject, content, err := renderLeadsAssigned(LeadsAssigned{
		ModeratorName: "Mina <Team A>",
		AssignedDate:  "2024-03-10",
		Reassigned:    3,
		Created:       2,
	})
	if err != nil {
		t.Fatalf("renderLeadsAssigned: %v", err)
	}

	if subject != "5 new calls in your queue for 2024-03-10" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Mina &lt;Team A&gt;", "3 returning contacts", "2 new leads", "<strong>2024-03-10</strong>"} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered email is missing %q", want)
		}
	}
}
