// Package docqa provides a Go client for the document Q&A HTTP API.
//
// Upload a document, wait for its index to materialize, then ask
// questions in natural language:
//
//	client := docqa.New("http://localhost:8000")
//
//	doc, _ := client.Upload(ctx, "report.pdf", file)
//	for doc.Status == docqa.StatusProcessing {
//	    time.Sleep(time.Second)
//	    doc, _ = client.Document(ctx, doc.ID)
//	}
//
//	answer, _ := client.Query(ctx, "What was Q3 revenue?", doc.ID)
//	fmt.Println(answer.Answer)
//
// Queries with an empty document id target the most recently uploaded
// document. API errors unwrap to the package sentinels; use errors.Is.
package docqa
