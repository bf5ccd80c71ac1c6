// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes for the SecureVote API.

Routes use Go 1.22+ method-and-pattern syntax on the standard ServeMux.
Dashboard routes are wrapped with session authentication; the
/api/esp32/* endpoints, device health reports, and GET /health are open,
since voting machines hold no session cookie.
*/
package router
