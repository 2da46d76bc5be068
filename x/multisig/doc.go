/*
Package multisig implements a threshold authorization program.

A Group is a list of owners together with the number of approvals
(threshold) required to authorize any proposal made under it. A
Proposal references a Group and carries an opaque action: a target, the
accounts the action operates on and a payload. Every Proposal holds a
roster with one entry per Group owner. The proposer approves
implicitly, every other owner approves with a separate instruction and
once the threshold is reached the proposal can be executed exactly
once.

Records are stored in fixed binary layouts, little endian, in storage
regions owned by the program. A record is located by its derived
address (see the address package), recomputed on every access from the
seed and bump kept inside the record.

Instructions are selected by the first byte of the instruction data:

  0 create group      [caller, group, allocator]
  1 create proposal   [caller, proposal, group, allocator]
  2 approve           [caller, proposal, group, allocator]
  3 execute           [proposal, group, allocator]
*/
package multisig
