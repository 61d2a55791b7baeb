package dispatcher

import (
	"fmt"
	"time"

	"complimart/internal/notification"
	id "complimart/pkg/domain"
)

// build constructs the immutable notification record for one trigger. The
// priority/kind pairs are fixed per action kind; COMPLIANCE_SCORE_CHANGED is
// the one data-dependent case (a drop warns, a rise celebrates).
func build(trig Trigger, targetRole id.Role, ownerKey string, at time.Time) notification.Notification {
	n := notification.Notification{
		ID:            notification.NewID(trig.Action, at),
		Timestamp:     at,
		TargetRole:    targetRole,
		OwnerIdentity: ownerKey,
		ContextData:   contextData(trig.Payload),
	}

	p := trig.Payload
	switch trig.Action {
	case notification.ActionDocumentUploaded:
		n.Priority = notification.PriorityLow
		n.Kind = notification.KindSuccess
		n.Message = fmt.Sprintf("%s uploaded and queued for verification", documentName(p))

	case notification.ActionDocumentVerified:
		n.Priority = notification.PriorityLow
		n.Kind = notification.KindSuccess
		n.Message = fmt.Sprintf("%s has been verified", documentName(p))

	case notification.ActionDocumentRejected:
		n.Priority = notification.PriorityHigh
		n.Kind = notification.KindAlert
		n.Message = fmt.Sprintf("%s was rejected by verification", documentName(p))
		n.Action = "Re-upload a corrected document"

	case notification.ActionComplianceScoreChanged:
		if p.NewScore < p.OldScore {
			n.Priority = notification.PriorityHigh
			n.Kind = notification.KindWarning
			n.Message = fmt.Sprintf("Compliance score dropped to %.0f", p.NewScore)
			n.Action = "Review outstanding documents"
		} else {
			n.Priority = notification.PriorityMedium
			n.Kind = notification.KindSuccess
			n.Message = fmt.Sprintf("Compliance score rose to %.0f", p.NewScore)
		}

	case notification.ActionDocumentExpiring:
		n.Priority = notification.PriorityHigh
		n.Kind = notification.KindWarning
		n.Message = fmt.Sprintf("%s expires in %d days", documentName(p), p.DaysUntilExpiry)
		n.Action = "Upload a renewed document"

	case notification.ActionDocumentRequired:
		n.Priority = notification.PriorityMedium
		n.Kind = notification.KindInfo
		if p.Status != "" {
			n.Message = fmt.Sprintf("%s is awaiting verification", documentName(p))
		} else {
			n.Message = fmt.Sprintf("%s is required for your compliance profile", documentName(p))
		}

	case notification.ActionEngagementCreated:
		n.Priority = notification.PriorityMedium
		n.Kind = notification.KindInfo
		n.Message = fmt.Sprintf("New engagement request: %s", engagementTitle(p))
		n.Action = "Respond to the request"

	case notification.ActionEngagementStatusChanged:
		n.Priority = notification.PriorityLow
		n.Kind = notification.KindInfo
		n.Message = fmt.Sprintf("Engagement %s moved to %s", engagementTitle(p), p.Status)

	case notification.ActionEngagementResponded:
		n.Priority = notification.PriorityMedium
		n.Kind = notification.KindInfo
		n.Message = fmt.Sprintf("Vendor responded to %s", engagementTitle(p))

	case notification.ActionEngagementCompleted:
		n.Priority = notification.PriorityLow
		n.Kind = notification.KindSuccess
		n.Message = fmt.Sprintf("Engagement %s completed", engagementTitle(p))

	case notification.ActionEngagementOnHold:
		n.Priority = notification.PriorityMedium
		n.Kind = notification.KindWarning
		n.Message = fmt.Sprintf("Engagement %s placed on hold", engagementTitle(p))
	}

	return n
}

func documentName(p Payload) string {
	if p.DocumentName != "" {
		return p.DocumentName
	}
	return "A document"
}

func engagementTitle(p Payload) string {
	if p.EngagementTitle != "" {
		return p.EngagementTitle
	}
	return "an engagement"
}

// contextData keeps a free-form reference to the triggering domain object on
// the record; empty payload fields are omitted.
func contextData(p Payload) map[string]any {
	data := make(map[string]any)
	if p.DocumentID != "" {
		data["documentId"] = p.DocumentID
	}
	if p.DocumentName != "" {
		data["documentName"] = p.DocumentName
	}
	if p.EngagementID != "" {
		data["engagementId"] = p.EngagementID
	}
	if p.EngagementTitle != "" {
		data["engagementTitle"] = p.EngagementTitle
	}
	if p.Status != "" {
		data["status"] = p.Status
	}
	if p.OldScore != 0 || p.NewScore != 0 {
		data["oldScore"] = p.OldScore
		data["newScore"] = p.NewScore
	}
	if p.DaysUntilExpiry != 0 {
		data["daysUntilExpiry"] = p.DaysUntilExpiry
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
