package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Envelope extracts the success flag and message from a raw response without
// decoding the payload. Missing fields yield zero values.
func Envelope(raw []byte) (bool, string) {
	success, _ := jsonparser.GetBoolean(raw, "success")
	message, _ := jsonparser.GetString(raw, "message")
	return success, message
}

// decodeDetect decodes detect_ides / get_default_ides responses. The ides list
// and count may sit at the top level or nested under data.
func decodeDetect(raw []byte) (DetectResult, error) {
	var res DetectResult
	res.Success, res.Message = Envelope(raw)
	res.Error, _ = jsonparser.GetString(raw, "error")

	list, dataType, _, err := jsonparser.Get(raw, "ides")
	if err != nil || dataType != jsonparser.Array {
		list, dataType, _, err = jsonparser.Get(raw, "data", "ides")
	}
	if err == nil && dataType == jsonparser.Array {
		if err := json.Unmarshal(list, &res.IDEs); err != nil {
			return DetectResult{}, fmt.Errorf("decode ides: %w", err)
		}
	}

	if count, err := jsonparser.GetInt(raw, "count"); err == nil {
		res.Count = int(count)
	} else if count, err := jsonparser.GetInt(raw, "data", "count"); err == nil {
		res.Count = int(count)
	} else {
		res.Count = len(res.IDEs)
	}
	return res, nil
}

func decodeResponse[T any](raw []byte) (Response[T], error) {
	var resp Response[T]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response[T]{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
