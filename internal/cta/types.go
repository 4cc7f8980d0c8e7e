package cta

import "encoding/json"

// Train is a single vehicle record from the Train Tracker positions feed.
// Numeric fields arrive string-encoded on the wire.
type Train struct {
	Run           string `json:"rn"`
	Destination   string `json:"destNm"`
	NextStation   string `json:"nextStaNm"`
	Latitude      string `json:"lat"`
	Longitude     string `json:"lon"`
	Heading       string `json:"heading"`
	IsApproaching string `json:"isApp"`
	IsDelayed     string `json:"isDly"`
	IsScheduled   string `json:"isSch"` // "1" = scheduled placeholder, "0" = live GPS fix
}

// IsGhost reports whether the record is a scheduled placeholder rather than
// a physically tracked train.
func (t Train) IsGhost() bool {
	return t.IsScheduled == "1"
}

// trainList tolerates the feed's habit of returning a bare object instead of
// a one-element array when a route has a single train.
type trainList []Train

func (l *trainList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]Train)(l))
	}
	var single Train
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = trainList{single}
	return nil
}

// envelope is the ttpositions.aspx response wrapper.
type envelope struct {
	Ctatt struct {
		ErrCd string  `json:"errCd"`
		ErrNm *string `json:"errNm"`
		Route []struct {
			Name   string    `json:"@name"`
			Trains trainList `json:"train"`
		} `json:"route"`
	} `json:"ctatt"`
}
