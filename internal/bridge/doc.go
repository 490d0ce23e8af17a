/*
Package bridge implements the localhost HTTP surface between a note editor
and the GigaChat client.

# Architecture Overview

The bridge follows a thin layered pattern:

1. HTTP Handlers (bridge.go)
  - Provide endpoints for generation, connection testing, settings and the
    request log
  - Validate the session token and map core errors to HTTP statuses
  - Convert between HTTP bodies and internal data types

2. GigaChat Client (internal/gigachat)
  - Fetches a fresh access token per action (client-credentials flow)
  - Issues the chat completion request and extracts the reply

3. Settings (internal/settings)
  - Loads the persisted record, applies defaults field by field, then
    environment overrides
  - Treated as copy-on-read by every handler

4. Request Log (internal/logpanel)
  - An injected sink the client writes through; the /log endpoint exposes
    the buffered entries to the host's log panel

5. Session Tokens (session.go)
  - Creates and validates JWT tokens presented by the editor host
  - Verification can be disabled with DISABLE_AUTH for local development

# Integration Flow

The typical request flow through the bridge is:

 1. The editor host POSTs /generate with a prompt and the current selection
 2. The handler validates the session token and re-reads the settings record
 3. The client exchanges the client id for an access token; a failed exchange
    aborts the action before any completion request is sent
 4. The client POSTs the completion request and extracts
    choices[0].message.content
 5. The host inserts the returned text at the cursor and resets its UI state

Each user action is one independent request/response pair. The bridge spawns
no background work, keeps no token cache, and applies no retries.
*/
package bridge
