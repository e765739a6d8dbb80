// Package email dispatches transactional email through a pluggable provider.
//
// The EmailSender interface hides the provider: Postmark for production,
// Amazon SES as an alternative, and a development sender that writes emails
// to disk. Attachments are carried base64-encoded end to end: they arrive
// base64 from the browser and leave base64 on the provider wire, so the
// payload is never decoded in between.
package email
