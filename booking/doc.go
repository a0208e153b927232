// Package booking provides a client for the Serre Chevalier Parapente public
// booking API.
//
// The API exposes tandem flight slots ("biplaces"), multi-day courses
// ("stages") and customer registration. Every request carries the
// x-api-key header.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := booking.NewClient(
//		"https://example.com/api",
//		"your-api-key",
//		logger,
//		booking.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.ListBaptemeSlots(ctx, booking.Query{Date: "2024-06-15"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	slots, err := resp.Result()
//
// The client returns the decoded envelope without looking at its success
// flag. Response.Result converts it into either the payload or an
// *APIFailureError.
//
// # Error Handling
//
// Every failure produced by the client is an *Error with one of the kinds
// KindValidation, KindAuthentication, KindServer, KindHTTP or KindNetwork.
// Each kind matches a sentinel with errors.Is:
//
//	if errors.Is(err, booking.ErrUnauthorized) {
//		// Handle auth failure
//	}
//
// Customer validation happens before any network call.
package booking
