// Package wordcountpb defines the Counter gRPC service's wire types. The
// same WordCountRequest/WordCountResponse structs are reused verbatim for
// the client-balancer TCP JSON frames (spec.md §6 uses identical field
// names on both wires), so one set of json tags serves both transports.
package wordcountpb

// WordCountRequest is the query (word, file_name) pair.
type WordCountRequest struct {
	Word     string `json:"word" protobuf:"bytes,1,opt,name=word,proto3"`
	FileName string `json:"file_name" protobuf:"bytes,2,opt,name=file_name,json=fileName,proto3"`
}

// WordCountResponse carries the count. A backend scan failure is reported
// as count -1 with status_code 0; the front door's canned failure frame
// (FailedResponse) carries count 0 with status_code -1.
type WordCountResponse struct {
	Count         int64  `json:"count" protobuf:"varint,1,opt,name=count,proto3"`
	StatusCode    int32  `json:"status_code" protobuf:"varint,2,opt,name=status_code,json=statusCode,proto3"`
	StatusMessage string `json:"status_message" protobuf:"bytes,3,opt,name=status_message,json=statusMessage,proto3"`
	LogID         string `json:"log_id" protobuf:"bytes,4,opt,name=log_id,json=logId,proto3"`
}

// FailedResponse is the canned frame the front door sends on any failure:
// read, routing, or RPC.
func FailedResponse() *WordCountResponse {
	return &WordCountResponse{
		Count:         0,
		StatusCode:    -1,
		StatusMessage: "some error occurred...",
		LogID:         "0",
	}
}
