package sqlinline

const QSettingsGet = `--sql 7748b9b1-80a7-488d-ad73-3757779930b9
select owner_id, auto_approve, default_template_id, default_model_config_id, notify_on_completion, updated_at
from user_settings
where owner_id = $1;
`

const QSettingsUpsert = `--sql 90fa7e5b-43d9-43fa-b7e1-7d823f3ac766
insert into user_settings (owner_id, auto_approve, default_template_id, default_model_config_id, notify_on_completion, updated_at)
values ($1, $2, $3, $4, $5, now())
on conflict (owner_id) do update
set auto_approve = excluded.auto_approve,
    default_template_id = excluded.default_template_id,
    default_model_config_id = excluded.default_model_config_id,
    notify_on_completion = excluded.notify_on_completion,
    updated_at = now();
`
