// Package notifier tells staff about new referee bookings.
//
// DryRunNotifier prints the admin WhatsApp link and message instead of
// sending anything. EmailNotifier mails the same message through Resend,
// and TelegramNotifier posts it to a chat through the Bot API.
package notifier
