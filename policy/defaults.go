package policy

// Default returns the marketplace rule set.
//
// Owner rules cover all operations; public rules cover reads only; admin
// overrides are role-match rules on "admin". Bookings deliberately carry no
// admin override and no public rule — only the client and the provider on a
// booking may touch it. service_tags has no rules at all, so every access
// to it is denied (fail-closed default).
func Default() *Registry {
	return MustRegistry(
		// users: a row's owner is the user itself.
		OwnerMatch("users_own_data", "users", "id"),
		AdminOverride("users_admin_access", "users"),

		// bookings: participants only.
		OwnerMatch("bookings_participant_access", "bookings", "client_id", "provider_id"),

		// orders.
		OwnerMatch("orders_own_data", "orders", "user_id"),
		AdminOverride("orders_admin_access", "orders"),

		// payments.
		OwnerMatch("payments_own_data", "payments", "user_id"),
		AdminOverride("payments_admin_access", "payments"),

		// services: public catalog, provider-managed.
		OwnerMatch("services_provider_access", "services", "provider_id"),
		PublicRead("services_public_read", "services"),
		AdminOverride("services_admin_access", "services"),

		// availability: public catalog, provider-managed.
		OwnerMatch("availability_provider_access", "availability", "provider_id"),
		PublicRead("availability_public_read", "availability"),

		// messages: participants only, plus admin.
		OwnerMatch("messages_participant_access", "messages", "sender_id", "recipient_id"),
		AdminOverride("messages_admin_access", "messages"),

		// notifications.
		OwnerMatch("notifications_own_data", "notifications", "user_id"),
		AdminOverride("notifications_admin_access", "notifications"),

		// items: public catalog, provider-managed.
		OwnerMatch("items_provider_access", "items", "provider_id"),
		PublicRead("items_public_read", "items"),
		AdminOverride("items_admin_access", "items"),

		// portfolio: public catalog, provider-managed.
		OwnerMatch("portfolio_provider_access", "portfolio", "provider_id"),
		PublicRead("portfolio_public_read", "portfolio"),

		// reviews: public read, author-managed, plus admin.
		OwnerMatch("reviews_own_data", "reviews", "user_id"),
		PublicRead("reviews_public_read", "reviews"),
		AdminOverride("reviews_admin_access", "reviews"),

		// subscriptions.
		OwnerMatch("subscriptions_own_data", "subscriptions", "user_id"),
		AdminOverride("subscriptions_admin_access", "subscriptions"),

		// tokens.
		OwnerMatch("tokens_own_data", "tokens", "user_id"),
		AdminOverride("tokens_admin_access", "tokens"),

		// sessions.
		OwnerMatch("sessions_own_data", "sessions", "user_id"),
		AdminOverride("sessions_admin_access", "sessions"),

		// system_events and tax_rules: admin only.
		AdminOverride("system_events_admin_access", "system_events"),
		AdminOverride("tax_rules_admin_access", "tax_rules"),

		// provider analytics: provider only, no admin override.
		OwnerMatch("provider_metrics_access", "provider_metrics", "provider_id"),
		OwnerMatch("provider_certifications_access", "provider_certifications", "provider_id"),

		// message_attachments: message participants.
		OwnerMatch("message_attachments_access", "message_attachments", "sender_id", "recipient_id"),

		// service_tags: intentionally no rules.
	)
}
