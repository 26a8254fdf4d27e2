package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// FILE TYPE CONSTANTS
// =====================================================
const (
	FileTypeMainText       = "main_text"
	FileTypeCoverLetter    = "cover_letter"
	FileTypeTitlePage      = "title_page"
	FileTypeAbstract       = "abstract"
	FileTypeTables         = "tables"
	FileTypeFigures        = "figures"
	FileTypeSupplementary  = "supplementary"
	FileTypeEthicsApproval = "ethics_approval"
	FileTypeCopyright      = "copyright"
	FileTypeRevision       = "revision"
	FileTypeRevisionNotes  = "revision_notes"
	FileTypeOther          = "other"
)

var AllFileTypes = []string{
	FileTypeMainText,
	FileTypeCoverLetter,
	FileTypeTitlePage,
	FileTypeAbstract,
	FileTypeTables,
	FileTypeFigures,
	FileTypeSupplementary,
	FileTypeEthicsApproval,
	FileTypeCopyright,
	FileTypeRevision,
	FileTypeRevisionNotes,
	FileTypeOther,
}

// allowedExtensions is the upload whitelist, lowercase with the dot.
var allowedExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".xls":  true,
	".xlsx": true,
}

// MaxFileSize caps a single upload at 50 MB.
const MaxFileSize = 50 << 20

// IsAllowedExtension checks the original filename against the upload
// whitelist.
func IsAllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// =====================================================
// ENTITY: ManuscriptFile
// =====================================================

// ManuscriptFile is one uploaded document of a submission. Rows are
// soft deleted: inactive files stay for the audit trail but do not
// count toward submission completeness.
type ManuscriptFile struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	UploadedBy   uuid.UUID `json:"uploaded_by"`

	FileType         string `json:"file_type"`
	OriginalFilename string `json:"original_filename"`
	StorageKey       string `json:"-"`
	ContentType      string `json:"content_type"`
	SizeBytes        int64  `json:"size_bytes"`
	Checksum         string `json:"checksum"` // hex-encoded SHA-256

	// Version the file belongs to: 0 for the initial submission,
	// matching revision_number for revised uploads.
	RevisionNumber int  `json:"revision_number"`
	IsActive       bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
