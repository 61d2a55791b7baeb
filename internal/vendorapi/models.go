// Package vendorapi models the marketplace backend's read surface as the
// notification engine sees it: the vendor profile (compliance score) and the
// vendor document collection with per-upload verification status. The engine
// only observes these collaborators; it never writes to them and never
// persists their responses.
package vendorapi

import "time"

// VerificationStatus is the remote verifier's judgment on one upload.
type VerificationStatus string

const (
	StatusPending             VerificationStatus = "PENDING"
	StatusPendingManualReview VerificationStatus = "PENDING_MANUAL_REVIEW"
	StatusVerified            VerificationStatus = "VERIFIED"
	StatusRejected            VerificationStatus = "REJECTED"
)

// Terminal reports whether the verifier is done with this upload. Polling
// continues only while some document is non-terminal.
func (s VerificationStatus) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// UploadedDocument is one uploaded file's verification record.
type UploadedDocument struct {
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	UploadedAt         time.Time          `json:"uploadedAt"`
}

// VendorDocument is a required compliance document slot with its upload history.
type VendorDocument struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	UploadedDocuments []UploadedDocument `json:"uploadedDocuments"`
}

// CurrentStatus returns the status of the most recent upload, or the empty
// status when nothing has been uploaded yet.
func (d VendorDocument) CurrentStatus() VerificationStatus {
	var latest *UploadedDocument
	for i := range d.UploadedDocuments {
		u := &d.UploadedDocuments[i]
		if latest == nil || u.UploadedAt.After(latest.UploadedAt) {
			latest = u
		}
	}
	if latest == nil {
		return ""
	}
	return latest.VerificationStatus
}

// VendorProfile is the slice of the profile the engine reads.
type VendorProfile struct {
	CompanyName            string  `json:"companyName"`
	OverallComplianceScore float64 `json:"overallComplianceScore"`
}

// DocumentStatus is one entry of the detector's snapshot: document identity
// plus current verification status, nothing else.
type DocumentStatus struct {
	DocumentID string
	Name       string
	Status     VerificationStatus
}

// Snapshot flattens the document collection into detector input, skipping
// slots with no uploads (they have no status to transition from).
func Snapshot(docs []VendorDocument) []DocumentStatus {
	out := make([]DocumentStatus, 0, len(docs))
	for _, d := range docs {
		status := d.CurrentStatus()
		if status == "" {
			continue
		}
		out = append(out, DocumentStatus{DocumentID: d.ID, Name: d.Name, Status: status})
	}
	return out
}
