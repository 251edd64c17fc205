package email

const (
	subjectLeadsAssignedFmt = "%d new calls in your queue for %s"
)
