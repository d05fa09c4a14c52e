// Package sqlinline holds every SQL statement the repositories execute as a
// named constant. The first line of each statement is an audit marker checked
// by tools/sqllint, so a reviewer can reference a statement by its id.
package sqlinline

const QJobInsert = `--sql 44b55483-d38b-4ab2-baa5-5ef17404e204
insert into jobs (id, owner_id, request, status, progress, current_step, locale)
values ($1, $2, $3, $4, $5, $6, $7);
`

const QJobGet = `--sql c7237dce-eb47-40dd-88cd-b0e59fa52807
select id, owner_id, request, status, agenda, progress, current_step, locale,
       result_key, error_message, leased_until, created_at, updated_at
from jobs
where id = $1;
`

const QJobGetForOwner = `--sql 26e6e596-4257-4d04-8a80-395e0077aaec
select id, owner_id, request, status, agenda, progress, current_step, locale,
       result_key, error_message, leased_until, created_at, updated_at
from jobs
where id = $1 and owner_id = $2;
`

const QJobListByOwner = `--sql 39179682-7ae9-4c2f-9d1a-defb90bb43ed
select id, owner_id, request, status, agenda, progress, current_step, locale,
       result_key, error_message, leased_until, created_at, updated_at
from jobs
where owner_id = $1
order by created_at desc;
`

// QJobUpdateCAS is the compare-and-set write: the status predicate makes a
// lost race update zero rows instead of clobbering a concurrent transition.
const QJobUpdateCAS = `--sql c06b67e8-ed5a-439e-895b-ceeb0a9d1869
update jobs
set status = $3,
    agenda = $4,
    progress = $5,
    current_step = $6,
    result_key = $7,
    error_message = $8,
    leased_until = $9,
    updated_at = now()
where id = $1 and status = $2;
`

// QJobClaimRunnable leases the oldest runnable job under SKIP LOCKED, so
// concurrent worker slots never claim the same record. An expired lease
// counts as free in both arms: a claimer that died before its first write
// leaves a pending job with a stale lease, and that job must come back.
const QJobClaimRunnable = `--sql d943cd39-ff32-42ff-af64-9a58ab31a23a
with next_job as (
    select id
    from jobs
    where (status = 'pending' and (leased_until is null or leased_until < now()))
       or (status = 'information_collection' and (leased_until is null or leased_until < now()))
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update jobs
    set leased_until = now() + make_interval(secs => $1),
        updated_at = now()
    where id in (select id from next_job)
    returning id, owner_id, request, status, agenda, progress, current_step, locale,
              result_key, error_message, leased_until, created_at, updated_at
)
select * from claimed;
`

const QJobReleaseLease = `--sql 38884ed6-1c1a-40f0-8d66-810cebfe18f9
update jobs
set leased_until = null, updated_at = now()
where id = $1;
`

const QJobCancelStaleApprovals = `--sql 435d218b-f1dc-45c2-80c1-06cb6d249060
update jobs
set status = 'cancelled',
    current_step = case when locale = 'ja' then 'キャンセルされました' else 'Cancelled' end,
    leased_until = null,
    updated_at = now()
where status = 'agenda_approval'
  and updated_at < now() - make_interval(secs => $1);
`

const QJobFailAbandoned = `--sql 29467eee-1723-472b-82f8-8ac7c1126811
update jobs
set status = 'failed',
    error_message = 'processing interrupted: worker lease expired',
    current_step = case when locale = 'ja' then 'エラーが発生しました' else 'An error occurred' end,
    leased_until = null,
    updated_at = now()
where status in ('agenda_generation', 'slide_creation', 'review')
  and leased_until is not null
  and leased_until < now();
`
