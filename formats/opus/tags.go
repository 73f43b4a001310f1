// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"github.com/thesyncim/gopus/container/ogg"
)

// parseTags reads the vendor string and user comments of a comment header.
func parseTags(data []byte) (string, map[string]string, error) {
	t, err := ogg.ParseOpusTags(data)
	if err != nil {
		return "", nil, err
	}
	return t.Vendor, t.Comments, nil
}
