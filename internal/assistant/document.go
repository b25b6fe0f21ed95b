package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DocumentType tags a document for type-specific analysis.
type DocumentType string

const (
	DocumentLease             DocumentType = "lease"
	DocumentPurchaseAgreement DocumentType = "purchase_agreement"
	DocumentInspectionReport  DocumentType = "inspection_report"
	DocumentSellerDisclosure  DocumentType = "seller_disclosure"
	DocumentHOA               DocumentType = "hoa_documents"
	DocumentOther             DocumentType = "other"
)

const (
	// maxDocumentChars caps the document text embedded in an analysis
	// prompt to bound payload size and cost.
	maxDocumentChars = 15000
	truncationMarker = "\n\n[Document truncated at 15,000 characters for analysis]"
)

var documentChecklists = map[DocumentType]string{
	DocumentLease: `Extract and review:
- Lease term and start/end dates
- Monthly rent amount and due date
- Security deposit amount and conditions for return
- Late fees and other recurring or one-time fees
- Pet policy
- Maintenance and repair responsibility split
- Early termination clause and penalties
- Renewal terms and rent escalation`,

	DocumentPurchaseAgreement: `Extract and review:
- Purchase price and earnest money deposit
- Closing date and possession date
- Financing, inspection, and appraisal contingencies
- Included and excluded fixtures or personal property
- Seller concessions or credits
- Default and remedy provisions`,

	DocumentInspectionReport: `Extract and review:
- Major structural, roof, or foundation findings
- Electrical, plumbing, and HVAC condition
- Safety hazards flagged by the inspector
- Items marked for immediate repair versus monitoring
- Estimated severity of each significant finding`,

	DocumentSellerDisclosure: `Extract and review:
- Known defects disclosed by the seller
- Past repairs, water damage, or pest history
- Disputes, easements, or boundary issues
- Environmental hazards (radon, lead paint, mold)
- Age of roof, HVAC, and major systems if stated`,

	DocumentHOA: `Extract and review:
- Monthly or annual dues and what they cover
- Special assessments, pending or historical
- Rental restrictions and occupancy rules
- Architectural or improvement restrictions
- Reserve fund health if stated`,

	DocumentOther: `Extract and review:
- Parties involved and their obligations
- Key financial figures and payment terms
- Important dates and deadlines
- Conditions, contingencies, or penalties`,
}

const documentOutputDirective = `Structure your analysis as:
1. Summary — two or three sentences on what this document is and its overall posture.
2. Key Terms — the most important terms a client must understand.
3. Important Dates — every date or deadline, in order.
4. Financial Summary — all amounts, fees, and recurring obligations.
5. Potential Concerns — anything unusual, one-sided, or worth a professional review.`

// BuildDocumentPrompt produces the single instruction string for analyzing a
// real-estate document. Unknown types fall back to the generic checklist.
// Text beyond the cap is truncated with an explicit marker.
func BuildDocumentPrompt(docType DocumentType, text string) string {
	checklist, ok := documentChecklists[docType]
	if !ok {
		docType = DocumentOther
		checklist = documentChecklists[DocumentOther]
	}

	if len(text) > maxDocumentChars {
		// Back off to a rune boundary so the cut never leaves a broken
		// UTF-8 sequence in the prompt.
		cut := maxDocumentChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + truncationMarker
	}

	return fmt.Sprintf(`You are AIVA, a real-estate assistant reviewing a %s for a client. You are not a lawyer and this is not legal advice; recommend professional review for anything material.

%s

%s

Document text:
%s`, strings.ReplaceAll(string(docType), "_", " "), checklist, documentOutputDirective, text)
}
