package service

import (
	"context"
	"sort"

	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/leads/repository"
	"orderhub_backend/internal/leads/transport"
	"orderhub_backend/platform/apperr"
)

const (
	QueueToday    = "today"
	QueueTomorrow = "tomorrow"
	QueueAll      = "all"
)

// Queue returns the calling queue of the acting moderator for one day, most
// recently assigned first, with counters across all of their leads.
func (s *Service) Queue(ctx context.Context, actor Actor, day string) (transport.QueueResponse, error) {
	if day == "" {
		day = QueueToday
	}

	leads, err := s.repo.ListByModerator(ctx, actor.BusinessID, actor.UserID)
	if err != nil {
		return transport.QueueResponse{}, apperr.Unavailable("could not load calling queue", err)
	}

	today := s.today()
	todayStr := today.Format(dateLayout)
	tomorrowStr := today.AddDate(0, 0, 1).Format(dateLayout)

	resp := transport.QueueResponse{
		Day:   day,
		Items: make([]transport.LeadResponse, 0, len(leads)),
		Stats: queueStats(leads, todayStr, tomorrowStr),
	}
	switch day {
	case QueueToday:
		resp.Date = todayStr
	case QueueTomorrow:
		resp.Date = tomorrowStr
	case QueueAll:
	default:
		return transport.QueueResponse{}, apperr.Validation("day must be today, tomorrow or all")
	}

	for _, lead := range leads {
		item := toLeadResponse(lead)
		if resp.Date != "" && item.AssignedDate != resp.Date {
			continue
		}
		resp.Items = append(resp.Items, item)
	}

	sort.SliceStable(resp.Items, func(i, j int) bool {
		a, b := resp.Items[i], resp.Items[j]
		if a.AssignedDate != b.AssignedDate {
			return a.AssignedDate > b.AssignedDate
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return resp, nil
}

func queueStats(leads []repository.Lead, today, tomorrow string) transport.QueueStats {
	stats := transport.QueueStats{Total: len(leads)}
	for _, lead := range leads {
		if lead.AssignedDate == nil {
			continue
		}
		assigned := lead.AssignedDate.Format(dateLayout)
		switch {
		case assigned == today && lead.Status == string(contacts.StatusPending):
			stats.PendingToday++
		case assigned == today && lead.Status == string(contacts.StatusConfirmed):
			stats.ConfirmedToday++
		case assigned == tomorrow:
			stats.Tomorrow++
		}
	}
	return stats
}
