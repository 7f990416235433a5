package model

import "time"

// BillChunk is one retrieval unit of a bill document. Document-level metadata
// is denormalized onto every chunk so a single-row read is self-describing.
// Rows for a document are replaced wholesale on re-ingestion, never updated.
type BillChunk struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SourceFile   string     `gorm:"column:source_file;size:64;not null;index" json:"source_file"`
	Chunk        string     `gorm:"column:chunk;type:text;not null" json:"chunk"`
	ChunkIndex   int        `gorm:"column:chunk_index;not null" json:"chunk_index"`
	ChunkLength  int        `gorm:"column:chunk_length;not null" json:"chunk_length"`
	BillSubtitle *string    `gorm:"column:bill_subtitle;size:512" json:"bill_subtitle,omitempty"`
	BillSponsor  *string    `gorm:"column:bill_sponsor;size:256" json:"bill_sponsor,omitempty"`
	DateFiled    *time.Time `gorm:"column:date_filed" json:"date_filed,omitempty"`
	Timestamp    time.Time  `gorm:"column:timestamp;not null" json:"timestamp"`
}

func (BillChunk) TableName() string {
	return "bill_chunks"
}

// Subtitle returns the subtitle or "" when absent.
func (c *BillChunk) Subtitle() string {
	if c.BillSubtitle == nil {
		return ""
	}
	return *c.BillSubtitle
}

// Sponsor returns the sponsor or "" when absent.
func (c *BillChunk) Sponsor() string {
	if c.BillSponsor == nil {
		return ""
	}
	return *c.BillSponsor
}

// BillSummary is a distinct-document projection of the chunk table used for
// bill listings and bill-type browsing.
type BillSummary struct {
	SourceFile   string     `gorm:"column:source_file" json:"source_file"`
	BillSubtitle *string    `gorm:"column:bill_subtitle" json:"bill_subtitle,omitempty"`
	BillSponsor  *string    `gorm:"column:bill_sponsor" json:"bill_sponsor,omitempty"`
	DateFiled    *time.Time `gorm:"column:date_filed" json:"date_filed,omitempty"`
}

// BillStats summarizes the loaded corpus for the prompt preamble.
type BillStats struct {
	TotalBills     int64      `json:"total_bills"`
	LatestFileDate *time.Time `json:"latest_file_date,omitempty"`
}
