package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

// InterviewDetails is the interview data rendered into notifications. Start and End should
// already be in the time zone shown to recipients.
type InterviewDetails struct {
	CandidateName    string
	CandidateEmail   string
	InterviewerName  string
	InterviewerEmail string
	Start            time.Time
	End              time.Time
	Type             string
	Location         string
	MeetingLink      string
}

// CandidateInvitation invites the candidate to a newly scheduled interview.
func CandidateInvitation(d InterviewDetails) Message {
	return render(d.CandidateEmail,
		"Interview invitation",
		fmt.Sprintf("Hello %s,", fallback(d.CandidateName, "there")),
		[]string{
			fmt.Sprintf("You are invited to a %s interview with %s.", d.Type, fallback(d.InterviewerName, d.InterviewerEmail)),
		},
		d,
	)
}

// InterviewerNotice tells the interviewer about a newly scheduled interview.
func InterviewerNotice(d InterviewDetails) Message {
	return render(d.InterviewerEmail,
		"New interview scheduled",
		fmt.Sprintf("Hello %s,", fallback(d.InterviewerName, "there")),
		[]string{
			fmt.Sprintf("A %s interview with %s has been scheduled.", d.Type, fallback(d.CandidateName, d.CandidateEmail)),
		},
		d,
	)
}

// RescheduleNotices informs both parties of the new interview time.
func RescheduleNotices(d InterviewDetails, previousStart time.Time) []Message {
	line := fmt.Sprintf("The interview previously set for %s has been moved.", previousStart.Format(timeLayout))
	return []Message{
		render(d.CandidateEmail, "Interview rescheduled", fmt.Sprintf("Hello %s,", fallback(d.CandidateName, "there")), []string{line}, d),
		render(d.InterviewerEmail, "Interview rescheduled", fmt.Sprintf("Hello %s,", fallback(d.InterviewerName, "there")), []string{line}, d),
	}
}

// CancellationNotices informs both parties that the interview was cancelled.
func CancellationNotices(d InterviewDetails, reason string) []Message {
	lines := []string{"The following interview has been cancelled."}
	if reason = strings.TrimSpace(reason); reason != "" {
		lines = append(lines, "Reason: "+reason)
	}
	return []Message{
		render(d.CandidateEmail, "Interview cancelled", fmt.Sprintf("Hello %s,", fallback(d.CandidateName, "there")), lines, d),
		render(d.InterviewerEmail, "Interview cancelled", fmt.Sprintf("Hello %s,", fallback(d.InterviewerName, "there")), lines, d),
	}
}

func render(to, subject, greeting string, lines []string, d InterviewDetails) Message {
	body := append([]string{greeting}, lines...)
	body = append(body, fmt.Sprintf("When: %s - %s", d.Start.Format(timeLayout), d.End.Format("15:04 MST")))
	if d.Location != "" {
		body = append(body, "Where: "+d.Location)
	}
	if d.MeetingLink != "" {
		body = append(body, "Link: "+d.MeetingLink)
	}

	var htmlBody strings.Builder
	for _, line := range body {
		htmlBody.WriteString("<p>")
		htmlBody.WriteString(html.EscapeString(line))
		htmlBody.WriteString("</p>")
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    htmlBody.String(),
		Text:    strings.Join(body, "\n"),
	}
}

func fallback(value, alternative string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return alternative
}
