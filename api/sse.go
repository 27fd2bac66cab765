package api

import (
	"encoding/json"
	"event-lab/services"
	"fmt"
	"io"
)

// writeSSE frames one stream event as a server-sent event. Event names
// match the stream contract: cache-info, token, end.
func writeSSE(w io.Writer, e services.StreamEvent) error {
	var name string
	switch e.(type) {
	case services.CacheInfo:
		name = "cache-info"
	case services.Token:
		name = "token"
	case services.End:
		name = "end"
	default:
		return fmt.Errorf("unknown stream event %T", e)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
