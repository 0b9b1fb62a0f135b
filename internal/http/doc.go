// Package http exposes the hiring core over a JSON API.
//
// The router exposes the following endpoints:
//   - POST /duplicates: checks a candidate identity against stored applications. Body:
//     {"email","phone","full_name","resume_text","job_id","exclude_application_id"}.
//     Response: {"is_duplicate","matched_application_ids","confidence","matching_factors"}.
//   - GET /jobs/{id}/rankings: ranks the analysed applications of a job.
//   - POST /applications/{id}/analysis: runs the résumé analysis for an application and
//     returns the updated application. Analysis failures leave the application unchanged.
//   - GET /slots?interviewer_email=&interviewer_name=&duration=: lists free interview windows
//     for the next two weeks.
//   - POST /interviews, GET /interviews?application_id=, GET /interviews/upcoming?days=,
//     GET /interviews/{id}: interview booking and lookup exchanging the `interviewDTO`
//     payload defined in interview_handler.go.
//   - POST /interviews/{id}/reschedule, /cancel, /confirm, /complete: lifecycle transitions.
//
// Errors are reported as {"error_code","message","errors"} with Japanese messages. Overlapping
// bookings and disallowed transitions map to 409, validation failures to 422.
package http
