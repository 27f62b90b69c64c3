package database

// Customer queries
const (
	// UpsertCustomerSQL inserts a customer keyed by normalized phone. On
	// conflict it keeps an existing non-empty name over the incoming one and
	// stamps last_call_at so every contact is recorded.
	UpsertCustomerSQL = `
		INSERT INTO customers (phone_number, name)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE SET
			name = CASE
				WHEN customers.name IS NULL OR customers.name = '' THEN EXCLUDED.name
				ELSE customers.name
			END,
			last_call_at = NOW(),
			updated_at = NOW()
		RETURNING id, name, preferred_pickup_time`

	UpdateCustomerNameSQL = `
		UPDATE customers SET name = $1, updated_at = NOW()
		WHERE phone_number = $2
		RETURNING id`

	// TouchCustomerByPhoneSQL loads a customer for the call-greeting path and
	// records the contact in the same statement.
	TouchCustomerByPhoneSQL = `
		UPDATE customers SET last_call_at = NOW()
		WHERE phone_number = $1
		RETURNING id, phone_number, name, preferred_pickup_time, created_at`

	UpdatePickupPreferenceSQL = `
		UPDATE customers SET preferred_pickup_time = $1, updated_at = NOW()
		WHERE phone_number = $2`
)

// Restaurant queries
const (
	GetRestaurantSQL = `
		SELECT id, name, address, phone, website, ordering_link, timezone,
			   COALESCE(tax_rate, 0.06), business_hours, lunch_hours
		FROM restaurants WHERE id = $1`

	UpdateStoreHoursSQL = `
		UPDATE restaurants SET business_hours = $1, updated_at = NOW()
		WHERE id = $2`
)

// Order queries
const (
	// NextOrderSequenceSQL advances the per-restaurant counter inside the
	// caller's transaction so concurrent placements never share a number.
	NextOrderSequenceSQL = `
		INSERT INTO restaurant_order_counters (restaurant_id, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (restaurant_id) DO UPDATE SET
			last_seq = restaurant_order_counters.last_seq + 1
		RETURNING last_seq`

	InsertOrderSQL = `
		INSERT INTO orders (id, number, restaurant_id, customer_id, type, pickup_time,
			subtotal, tax_amount, delivery_fee, tip_amount, total_amount,
			payment_type, payment_status, payment_transaction_id, order_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, name, quantity, price, special_instructions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	InsertOrderModifierSQL = `
		INSERT INTO order_item_modifiers (order_item_id, name, quantity, price)
		VALUES ($1, $2, $3, $4)`

	InsertPOSResultSQL = `
		INSERT INTO pos_dispatch_log (order_id, pos_system, success, pos_order_id, status, message, error_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	// InsertReconciliationSQL records a captured charge whose order row
	// failed to persist, for manual follow-up.
	InsertReconciliationSQL = `
		INSERT INTO payment_reconciliation (transaction_id, restaurant_id, customer_phone, amount, failure_reason)
		VALUES ($1, $2, $3, $4, $5)`
)
