package db

import "fmt"

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    login TEXT UNIQUE NOT NULL,
    role TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS suppliers (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name TEXT NOT NULL,
    company_name TEXT,
    phone TEXT,
    state TEXT,
    district TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS buyers (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name TEXT NOT NULL,
    company_name TEXT,
    phone TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS drivers (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    supplier_id UUID REFERENCES suppliers(id),
    name TEXT NOT NULL,
    phone TEXT,
    license_number TEXT UNIQUE,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS vehicles (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    supplier_id UUID REFERENCES suppliers(id),
    vehicle_number TEXT NOT NULL,
    body_type TEXT,
    capacity_tons NUMERIC(8,2),
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transport_orders (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    order_number TEXT NOT NULL UNIQUE,
    supplier_id UUID NOT NULL REFERENCES suppliers(id),
    state TEXT NOT NULL,
    district TEXT NOT NULL,
    place TEXT NOT NULL,
    taluk TEXT DEFAULT '',
    vehicle_number TEXT NOT NULL,
    body_type TEXT NOT NULL,
    driver_id UUID,
    status TEXT NOT NULL DEFAULT 'pending',
    admin_notes TEXT DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    submitted_at TIMESTAMPTZ DEFAULT NOW(),
    admin_action_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS buyer_requests (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    order_number TEXT NOT NULL UNIQUE,
    buyer_id UUID NOT NULL REFERENCES buyers(id),
    load_details TEXT NOT NULL,
    from_state TEXT NOT NULL,
    from_district TEXT NOT NULL,
    from_place TEXT NOT NULL,
    from_taluk TEXT DEFAULT '',
    to_state TEXT NOT NULL,
    to_district TEXT NOT NULL,
    to_place TEXT NOT NULL,
    to_taluk TEXT DEFAULT '',
    quantity NUMERIC(10,2) NOT NULL,
    required_date DATE NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    admin_notes TEXT DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    submitted_at TIMESTAMPTZ,
    admin_action_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS confirmed_orders (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    order_id UUID NOT NULL UNIQUE,
    supplier_id UUID NOT NULL REFERENCES suppliers(id),
    driver_id UUID,
    vehicle_id UUID,
    status TEXT NOT NULL DEFAULT 'assigned',
    planned_pickup TIMESTAMPTZ,
    planned_delivery TIMESTAMPTZ,
    actual_pickup TIMESTAMPTZ,
    actual_delivery TIMESTAMPTZ,
    notes TEXT DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_submissions (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    order_id UUID NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'pending',
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    audience TEXT NOT NULL,
    category TEXT NOT NULL,
    severity TEXT NOT NULL,
    priority TEXT NOT NULL,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    order_id UUID,
    driver_id UUID,
    vehicle_id UUID,
    event_key TEXT UNIQUE,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transport_orders_supplier ON transport_orders(supplier_id);
CREATE INDEX IF NOT EXISTS idx_transport_orders_status ON transport_orders(status);
CREATE INDEX IF NOT EXISTS idx_buyer_requests_buyer ON buyer_requests(buyer_id);
CREATE INDEX IF NOT EXISTS idx_confirmed_orders_supplier ON confirmed_orders(supplier_id);
CREATE INDEX IF NOT EXISTS idx_confirmed_orders_driver ON confirmed_orders(driver_id);
CREATE INDEX IF NOT EXISTS idx_notifications_audience ON notifications(audience, created_at DESC);
`

func (d *DB) initSchema() error {
	if _, err := d.conn.Exec(d.ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
